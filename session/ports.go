package session

import (
	"context"
	"time"

	"go.scrib.dev/scrib/internal/types"
)

// Recording is a finalized capture handed off by the Recorder. The file at
// Path is owned by the coordinator until transcription consumes it.
type Recording struct {
	Path     string
	Duration time.Duration
}

// Recorder captures microphone audio into a temporary file.
type Recorder interface {
	// HasPermission reports whether microphone access is already granted.
	HasPermission() bool
	// RequestPermission shows the OS prompt and blocks until answered.
	RequestPermission() bool
	// Start begins capturing.
	Start() error
	// Stop finalizes the capture and returns the recorded file.
	Stop() (Recording, error)
	// Cancel aborts the capture and discards any partial file.
	Cancel()
	// Level returns the instantaneous input level in [0, 1].
	Level() float64
}

// Transcriber converts a finalized recording into text. It is the
// coordinator-facing subset of stt.Provider.
type Transcriber interface {
	Identifier() string
	SetProgressHandler(func(progress string))
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Enhancer rewrites transcribed text for punctuation and clarity.
// Enhancement is best-effort; the coordinator falls back to the raw
// transcription when it fails.
type Enhancer interface {
	Enhance(ctx context.Context, text string) (string, error)
}

// FocusTracker remembers the application that was frontmost before the
// recording bar appeared.
type FocusTracker interface {
	CapturePrevious()
	HasPrevious() bool
	RestorePrevious() bool
}

// PasteDispatcher simulates the platform paste shortcut, gated by the
// accessibility permission.
type PasteDispatcher interface {
	HasPermission() bool
	SimulatePaste(ctx context.Context, delay time.Duration) bool
}

// ClipboardWriter places text on the system clipboard.
type ClipboardWriter interface {
	SetText(text string) error
}

// HistoryStore persists completed transcriptions. Implementations apply
// their own size-bounded retention.
type HistoryStore interface {
	Save(ctx context.Context, rec types.TranscriptionRecord) error
}

// Sink receives coordinator output for reactive consumption by the UI.
type Sink interface {
	StateChanged(s State)
	LevelsChanged(levels []float64)
}

// NopSink discards all coordinator output.
type NopSink struct{}

func (NopSink) StateChanged(State)      {}
func (NopSink) LevelsChanged([]float64) {}
