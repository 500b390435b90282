// Package session coordinates the record → transcribe → deliver lifecycle.
package session

// Phase is the discriminant of the recording state union.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRecording  Phase = "recording"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseError      Phase = "error"
)

// State is the externally visible session state. Exactly one phase is active;
// the non-phase fields are meaningful only for the phase that sets them.
type State struct {
	Phase Phase

	// Progress is a human-readable label while processing,
	// e.g. "Transcribing…" or "Downloading model…".
	Progress string

	// Completed results.
	Text                string
	Pasted              bool
	SmartPasteAttempted bool

	// Error message, user-facing.
	Message string
}

// Idle returns the zero activity state.
func Idle() State { return State{Phase: PhaseIdle} }

// RecordingState returns the capture-in-progress state.
func RecordingState() State { return State{Phase: PhaseRecording} }

// Processing returns the transcription-in-flight state with a phase label.
func Processing(progress string) State {
	return State{Phase: PhaseProcessing, Progress: progress}
}

// Completed returns the terminal success state.
func Completed(text string, pasted, smartPasteAttempted bool) State {
	return State{
		Phase:               PhaseCompleted,
		Text:                text,
		Pasted:              pasted,
		SmartPasteAttempted: smartPasteAttempted,
	}
}

// Errored returns the terminal failure state with a user-facing message.
func Errored(message string) State {
	return State{Phase: PhaseError, Message: message}
}

// Active reports whether a session is currently capturing or processing.
func (s State) Active() bool {
	return s.Phase == PhaseRecording || s.Phase == PhaseProcessing
}
