package session

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.scrib.dev/scrib/internal/types"
)

// Config holds the coordinator's tuning constants. Zero values fall back to
// the defaults below.
type Config struct {
	// CompletedResetDelay is how long a completed state stays visible
	// before the coordinator resets to idle.
	CompletedResetDelay time.Duration

	// ErrorResetDelay is the same for error states. Longer, so the user
	// can read the message before the UI clears.
	ErrorResetDelay time.Duration

	// PasteSettleDelay is waited after restoring focus to the previous
	// application, letting it finish activating before the keystroke.
	PasteSettleDelay time.Duration

	// PasteKeyDelay is the small delay before the paste keystroke itself.
	PasteKeyDelay time.Duration

	LevelInterval time.Duration
	LevelWindow   int
}

func (c *Config) applyDefaults() {
	if c.CompletedResetDelay <= 0 {
		c.CompletedResetDelay = 2 * time.Second
	}
	if c.ErrorResetDelay <= 0 {
		c.ErrorResetDelay = 6 * time.Second
	}
	if c.PasteSettleDelay <= 0 {
		c.PasteSettleDelay = 200 * time.Millisecond
	}
	if c.PasteKeyDelay <= 0 {
		c.PasteKeyDelay = 100 * time.Millisecond
	}
	if c.LevelInterval <= 0 {
		c.LevelInterval = DefaultLevelInterval
	}
	if c.LevelWindow <= 0 {
		c.LevelWindow = DefaultLevelWindow
	}
}

// Deps are the coordinator's collaborators. Recorder is required; the rest
// fall back to no-ops so partial wiring stays testable.
type Deps struct {
	Recorder  Recorder
	Provider  func() Transcriber // returns nil when no service is configured
	Enhancer  func() Enhancer    // returns nil when enhancement is disabled
	Focus     FocusTracker
	Paste     PasteDispatcher
	Clipboard ClipboardWriter
	History   HistoryStore
	Sink      Sink

	// SmartPaste reports the current smart-paste preference.
	SmartPaste func() bool

	// OnPasted is invoked after a successful simulated paste, so the UI
	// can dismiss the ephemeral recording bar.
	OnPasted func()
}

// Coordinator owns the lifecycle of a single record → transcribe →
// (optionally enhance) → deliver session. All state mutations happen under
// one mutex, and every asynchronous completion is tagged with the session
// token minted at StartRecording: a completion whose token no longer matches
// is discarded, so a cancelled or superseded session can never corrupt the
// currently displayed state.
type Coordinator struct {
	recorder   Recorder
	provider   func() Transcriber
	enhancer   func() Enhancer
	focus      FocusTracker
	paster     PasteDispatcher
	clipboard  ClipboardWriter
	history    HistoryStore
	sink       Sink
	smartPaste func() bool
	onPasted   func()
	cfg        Config
	meter      *levelMeter

	mu         sync.Mutex
	state      State
	token      uuid.UUID // uuid.Nil when no session owns async work
	audioPath  string    // held audio handle, deleted on every exit path
	levelStop  context.CancelFunc
	taskCancel context.CancelFunc
	resetTimer *time.Timer
}

// New creates a Coordinator. The Sink must not call back into the
// coordinator; notifications are delivered in strict transition order.
func New(deps Deps, cfg Config) *Coordinator {
	cfg.applyDefaults()

	if deps.Provider == nil {
		deps.Provider = func() Transcriber { return nil }
	}
	if deps.Enhancer == nil {
		deps.Enhancer = func() Enhancer { return nil }
	}
	if deps.Focus == nil {
		deps.Focus = nopFocus{}
	}
	if deps.Paste == nil {
		deps.Paste = nopPaste{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = nopClipboard{}
	}
	if deps.Sink == nil {
		deps.Sink = NopSink{}
	}
	if deps.SmartPaste == nil {
		deps.SmartPaste = func() bool { return false }
	}

	return &Coordinator{
		recorder:   deps.Recorder,
		provider:   deps.Provider,
		enhancer:   deps.Enhancer,
		focus:      deps.Focus,
		paster:     deps.Paste,
		clipboard:  deps.Clipboard,
		history:    deps.History,
		sink:       deps.Sink,
		smartPaste: deps.SmartPaste,
		onPasted:   deps.OnPasted,
		cfg:        cfg,
		meter:      newLevelMeter(cfg.LevelWindow),
		state:      Idle(),
	}
}

// State returns the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Levels returns the current rolling level history.
func (c *Coordinator) Levels() []float64 {
	return c.meter.snapshot()
}

// StartRecording begins a new session. It is a no-op while a session is
// already recording or processing.
func (c *Coordinator) StartRecording() {
	c.mu.Lock()
	if c.state.Active() {
		c.mu.Unlock()
		return
	}
	c.stopResetTimerLocked()
	c.token = uuid.New()
	token := c.token
	c.mu.Unlock()

	// Remember the frontmost application before the recording bar steals
	// focus, so smart paste can return to it later.
	c.focus.CapturePrevious()

	if !c.recorder.HasPermission() && !c.recorder.RequestPermission() {
		c.failSession(token, "Microphone access is required. Enable it in System Settings → Privacy & Security → Microphone.")
		return
	}

	if err := c.recorder.Start(); err != nil {
		slog.Error("start capture", "error", err)
		c.failSession(token, "Could not start recording: "+err.Error())
		return
	}

	c.mu.Lock()
	if c.token != token {
		// Superseded while the permission prompt or capture start was
		// pending. Abandon the capture we just started.
		c.mu.Unlock()
		c.recorder.Cancel()
		return
	}
	c.setStateLocked(RecordingState())
	levelCtx, cancel := context.WithCancel(context.Background())
	c.levelStop = cancel
	c.mu.Unlock()

	go c.runLevelLoop(levelCtx)
}

// StopRecording ends capture and kicks off transcription in the background.
// It returns promptly; state changes are published as they occur. No-op
// unless currently recording.
func (c *Coordinator) StopRecording() {
	c.mu.Lock()
	if c.state.Phase != PhaseRecording {
		c.mu.Unlock()
		return
	}
	token := c.token
	c.stopLevelLoopLocked()
	c.setStateLocked(Processing("Transcribing…"))
	c.mu.Unlock()

	go func() {
		rec, err := c.recorder.Stop()
		if err != nil {
			slog.Error("stop capture", "error", err)
			c.failSession(token, "Could not finish recording: "+err.Error())
			return
		}

		c.mu.Lock()
		if c.token != token {
			c.mu.Unlock()
			_ = os.Remove(rec.Path)
			return
		}
		c.audioPath = rec.Path
		ctx, cancel := context.WithCancel(context.Background())
		c.taskCancel = cancel
		c.mu.Unlock()

		c.transcribe(ctx, rec, token)
	}()
}

// CancelRecording aborts an in-progress capture and discards it.
func (c *Coordinator) CancelRecording() {
	c.mu.Lock()
	if c.state.Phase != PhaseRecording {
		c.mu.Unlock()
		return
	}
	c.stopLevelLoopLocked()
	c.token = uuid.Nil
	c.setStateLocked(Idle())
	c.mu.Unlock()

	c.recorder.Cancel()
}

// CancelProcessing cancels the in-flight transcription task and resets to
// idle. The provider call is cancelled cooperatively; the held audio handle
// is deleted here rather than left to a completion that may never run.
func (c *Coordinator) CancelProcessing() {
	c.mu.Lock()
	if c.state.Phase != PhaseProcessing {
		c.mu.Unlock()
		return
	}
	c.cancelTaskLocked()
	c.removeAudioLocked()
	c.token = uuid.Nil
	c.setStateLocked(Idle())
	c.mu.Unlock()
}

// CancelActiveWork dispatches to whichever cancellation applies.
func (c *Coordinator) CancelActiveWork() {
	switch c.State().Phase {
	case PhaseRecording:
		c.CancelRecording()
	case PhaseProcessing:
		c.CancelProcessing()
	}
}

// Cleanup releases everything at application teardown.
func (c *Coordinator) Cleanup() {
	c.mu.Lock()
	recording := c.state.Phase == PhaseRecording
	c.stopLevelLoopLocked()
	c.cancelTaskLocked()
	c.stopResetTimerLocked()
	c.removeAudioLocked()
	c.token = uuid.Nil
	c.state = Idle()
	c.mu.Unlock()

	if recording {
		c.recorder.Cancel()
	}
}

// transcribe runs the provider, the optional enhancement pass, and delivery.
// Every branch re-checks token currency before touching shared state.
func (c *Coordinator) transcribe(ctx context.Context, rec Recording, token uuid.UUID) {
	provider := c.provider()
	if provider == nil {
		c.failSession(token, "No transcription service selected")
		return
	}

	provider.SetProgressHandler(func(progress string) {
		c.setProgress(token, progress)
	})

	text, err := provider.Transcribe(ctx, rec.Path)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled; CancelProcessing already cleaned up.
			return
		}
		slog.Error("transcribe", "provider", provider.Identifier(), "error", err)
		c.failSession(token, describeTranscribeError(err))
		return
	}

	if enhancer := c.enhancer(); enhancer != nil {
		c.setProgress(token, "Enhancing…")
		enhanced, err := enhancer.Enhance(ctx, text)
		if err != nil {
			// Enhancement is best-effort: keep the raw transcription.
			slog.Warn("enhance transcription", "error", err)
		} else if strings.TrimSpace(enhanced) != "" {
			text = enhanced
		}
	}

	c.deliver(ctx, text, provider.Identifier(), rec, token)
}

// deliver copies the text to the clipboard, persists it to history,
// optionally performs smart paste, and completes the session.
func (c *Coordinator) deliver(ctx context.Context, text, providerID string, rec Recording, token uuid.UUID) {
	c.mu.Lock()
	if c.token != token {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.clipboard.SetText(text); err != nil {
		slog.Error("copy to clipboard", "error", err)
	}

	if c.history != nil {
		record := types.TranscriptionRecord{
			ID:        uuid.NewString(),
			Text:      text,
			CreatedAt: time.Now(),
			Provider:  providerID,
			Duration:  rec.Duration,
		}
		if err := c.history.Save(ctx, record); err != nil {
			slog.Warn("save history", "error", err)
		}
	}

	attempted, pasted := c.performSmartPaste(ctx)

	c.mu.Lock()
	if c.token != token {
		c.mu.Unlock()
		return
	}
	c.removeAudioLocked()
	c.setStateLocked(Completed(text, pasted, attempted))
	c.scheduleResetLocked(token, c.cfg.CompletedResetDelay)
	c.mu.Unlock()
}

// performSmartPaste attempts delivery into the previously focused
// application. Each failed precondition falls through to "copied only"
// without failing the session.
func (c *Coordinator) performSmartPaste(ctx context.Context) (attempted, pasted bool) {
	if !c.smartPaste() {
		return false, false
	}
	attempted = true

	if !c.paster.HasPermission() {
		slog.Warn("smart paste skipped", "reason", "accessibility permission missing")
		return attempted, false
	}
	if !c.focus.HasPrevious() {
		return attempted, false
	}
	if !c.focus.RestorePrevious() {
		return attempted, false
	}

	// Let the target application finish activating.
	select {
	case <-ctx.Done():
		return attempted, false
	case <-time.After(c.cfg.PasteSettleDelay):
	}

	pasted = c.paster.SimulatePaste(ctx, c.cfg.PasteKeyDelay)
	if pasted && c.onPasted != nil {
		c.onPasted()
	}
	return attempted, pasted
}

// failSession surfaces an error state for the given session, cleaning up any
// resources the session still holds. No-op when the token is stale.
func (c *Coordinator) failSession(token uuid.UUID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != token {
		return
	}
	c.cancelTaskLocked()
	c.stopLevelLoopLocked()
	c.removeAudioLocked()
	c.setStateLocked(Errored(message))
	c.scheduleResetLocked(token, c.cfg.ErrorResetDelay)
}

// setProgress updates the processing label, only while the session is still
// current and still processing.
func (c *Coordinator) setProgress(token uuid.UUID, progress string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != token || c.state.Phase != PhaseProcessing {
		return
	}
	c.setStateLocked(Processing(progress))
}

// scheduleResetLocked arms the delayed transition back to idle that makes
// terminal states self-clearing.
func (c *Coordinator) scheduleResetLocked(token uuid.UUID, delay time.Duration) {
	c.stopResetTimerLocked()
	c.resetTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.token != token {
			return
		}
		if c.state.Phase != PhaseCompleted && c.state.Phase != PhaseError {
			return
		}
		c.token = uuid.Nil
		c.setStateLocked(Idle())
	})
}

func (c *Coordinator) setStateLocked(s State) {
	c.state = s
	c.sink.StateChanged(s)
}

func (c *Coordinator) stopResetTimerLocked() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

func (c *Coordinator) stopLevelLoopLocked() {
	if c.levelStop != nil {
		c.levelStop()
		c.levelStop = nil
	}
}

func (c *Coordinator) cancelTaskLocked() {
	if c.taskCancel != nil {
		c.taskCancel()
		c.taskCancel = nil
	}
}

func (c *Coordinator) removeAudioLocked() {
	if c.audioPath == "" {
		return
	}
	if err := os.Remove(c.audioPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove audio file", "path", c.audioPath, "error", err)
	}
	c.audioPath = ""
}

// no-op collaborators keep the coordinator usable with partial wiring.

type nopFocus struct{}

func (nopFocus) CapturePrevious()      {}
func (nopFocus) HasPrevious() bool     { return false }
func (nopFocus) RestorePrevious() bool { return false }

type nopPaste struct{}

func (nopPaste) HasPermission() bool                               { return false }
func (nopPaste) SimulatePaste(context.Context, time.Duration) bool { return false }

type nopClipboard struct{}

func (nopClipboard) SetText(string) error { return nil }
