package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.scrib.dev/scrib/audiocapture"
	"go.scrib.dev/scrib/clipboard"
	"go.scrib.dev/scrib/config"
	"go.scrib.dev/scrib/history"
	"go.scrib.dev/scrib/hotkey"
	"go.scrib.dev/scrib/internal/types"
	"go.scrib.dev/scrib/langdetect"
	"go.scrib.dev/scrib/llm"
	"go.scrib.dev/scrib/paste"
	"go.scrib.dev/scrib/session"
	"go.scrib.dev/scrib/stt"

	focustrack "go.scrib.dev/scrib/focus"
)

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; business logic lives in sub-components.
type Service struct {
	cfg      *config.Config
	registry *stt.Registry
	store    *history.Store
	detector *langdetect.Detector
	recorder *audiocapture.Recorder
	focus    *focustrack.Tracker
	paster   *paste.Dispatcher
	hotkey   *hotkey.Manager
	coord    *session.Coordinator

	// UI references - set via Init
	app *application.App
	bar application.Window

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{version: version}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init initializes the service with app and recording-bar window references.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, bar application.Window) {
	s.app = app
	s.bar = bar

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = &config.Config{}
	}
	s.cfg = cfg

	s.detector = langdetect.New()
	s.focus = focustrack.New()
	s.paster = paste.New()

	s.setupHistory()
	s.setupProviders()
	s.setupCoordinator()
	s.setupHotkey()
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hotkey != nil {
		s.hotkey.Stop()
	}
	if s.coord != nil {
		s.coord.Cleanup()
	}
	if s.registry != nil {
		if err := s.registry.Close(); err != nil {
			slog.Error("close providers", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Error("close history", "error", err)
		}
	}
}

func (s *Service) setupHistory() {
	dataDir, err := config.DataDir()
	if err != nil {
		slog.Error("get data dir", "error", err)
		return
	}

	opts := []history.Option{history.WithLanguageDetector(s.detector.Code)}
	if s.cfg.HistoryLimit > 0 {
		opts = append(opts, history.WithLimit(s.cfg.HistoryLimit))
	}

	store, err := history.Open(filepath.Join(dataDir, "history"), opts...)
	if err != nil {
		slog.Error("open history", "error", err)
		return
	}
	s.store = store
	slog.Info("history store opened", "dir", dataDir)
}

func (s *Service) setupProviders() {
	s.registry = stt.NewRegistry()

	if native, err := stt.NewNativeSpeech(s.cfg.GetSpeechConfig().Language); err == nil {
		s.registry.Register(native)
	} else {
		slog.Warn("native speech unavailable", "error", err)
	}

	s.registry.Register(stt.NewWhisperAPI(s.whisperAPIConfig))

	local, err := stt.NewWhisperLocal(stt.WhisperLocalConfig{
		ModelSize: s.cfg.GetSpeechConfig().Model,
		Language:  s.cfg.GetSpeechConfig().Language,
	})
	if err != nil {
		// Model size comes from config; fall back to the default build.
		slog.Warn("configure whisper local", "error", err)
		local, err = stt.NewWhisperLocal(stt.WhisperLocalConfig{})
	}
	if err == nil {
		s.registry.Register(local)
	}
}

// whisperAPIConfig resolves the cloud provider settings from the current
// credential selection. Re-read on every ReloadPreferences.
func (s *Service) whisperAPIConfig() stt.WhisperAPIConfig {
	speech := s.cfg.GetSpeechConfig()

	cfg := stt.WhisperAPIConfig{
		Model:    speech.Model,
		Language: speech.Language,
	}
	if cred := s.cfg.GetCredential(speech.CredentialID); cred != nil {
		cfg.APIKey = cred.APIKey
		cfg.BaseURL = cred.BaseURL
	}
	return cfg
}

func (s *Service) setupCoordinator() {
	recorder, err := audiocapture.New()
	if err != nil {
		slog.Error("init recorder", "error", err)
		return
	}
	s.recorder = recorder

	var store session.HistoryStore
	if s.store != nil {
		store = s.store
	}

	s.coord = session.New(session.Deps{
		Recorder:  recorderAdapter{recorder},
		Provider:  s.activeTranscriber,
		Enhancer:  s.activeEnhancer,
		Focus:     s.focus,
		Paste:     s.paster,
		Clipboard: clipboardWriter{},
		History:   store,
		Sink:      &eventSink{service: s},
		SmartPaste: func() bool {
			return s.cfg.SmartPasteEnabled()
		},
		OnPasted: s.hideBar,
	}, session.Config{})
}

// activeTranscriber returns the selected provider, nil when none usable.
func (s *Service) activeTranscriber() session.Transcriber {
	if s.registry == nil {
		return nil
	}
	provider := s.registry.Get(s.cfg.GetSpeechConfig().Provider)
	if provider == nil {
		return nil
	}
	return provider
}

// activeEnhancer builds the clean-up pass from the enhancement config, nil
// when disabled or misconfigured.
func (s *Service) activeEnhancer() session.Enhancer {
	ec := s.cfg.GetEnhanceConfig()
	if !ec.Enabled {
		return nil
	}

	cred := s.cfg.GetCredential(ec.CredentialID)
	if cred == nil {
		slog.Warn("enhance enabled but credential missing", "id", ec.CredentialID)
		return nil
	}

	completer := llm.NewCompleter(cred.Type, cred.APIKey, cred.BaseURL, ec.Model, llm.Options{
		MaxTokens:   ec.MaxTokens,
		Temperature: ec.Temperature,
	})
	return llm.NewEnhancer(completer, ec.SystemPrompt)
}

func (s *Service) setupHotkey() {
	s.hotkey = hotkey.NewManager(s.cfg.HotkeyKeys, func() {
		go s.ToggleRecording()
	})
	s.hotkey.SetPermissionCheck(s.paster.HasPermission)
	s.hotkey.SetStatusCallback(func(granted bool) {
		s.emit(EventAccessibilityPerm, granted)
		if granted {
			slog.Info("accessibility permission granted")
		} else {
			slog.Warn("accessibility permission denied")
		}
	})

	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
	}
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

func (s *Service) showBar() {
	if s.bar != nil {
		s.bar.Show()
	}
}

func (s *Service) hideBar() {
	if s.bar != nil {
		s.bar.Hide()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording
// ─────────────────────────────────────────────────────────────────────────────

// ToggleRecording starts a session, or stops the running one.
func (s *Service) ToggleRecording() {
	if s.coord == nil {
		return
	}
	switch s.coord.State().Phase {
	case session.PhaseRecording:
		s.coord.StopRecording()
	case session.PhaseProcessing:
		// A second press while processing is ignored; cancel is explicit.
	default:
		s.showBar()
		s.coord.StartRecording()
	}
}

// StartRecording begins a new dictation session.
func (s *Service) StartRecording() {
	if s.coord != nil {
		s.showBar()
		s.coord.StartRecording()
	}
}

// StopRecording ends capture and starts transcription.
func (s *Service) StopRecording() {
	if s.coord != nil {
		s.coord.StopRecording()
	}
}

// CancelRecording aborts the in-progress capture.
func (s *Service) CancelRecording() {
	if s.coord != nil {
		s.coord.CancelRecording()
	}
}

// CancelProcessing aborts the in-flight transcription.
func (s *Service) CancelProcessing() {
	if s.coord != nil {
		s.coord.CancelProcessing()
	}
}

// CancelActiveWork cancels whatever the session is doing.
func (s *Service) CancelActiveWork() {
	if s.coord != nil {
		s.coord.CancelActiveWork()
	}
}

// GetRecordingState returns the current session state.
func (s *Service) GetRecordingState() types.RecordingStateDTO {
	if s.coord == nil {
		return stateDTO(session.Idle())
	}
	return stateDTO(s.coord.State())
}

// GetLevels returns the rolling input level history.
func (s *Service) GetLevels() []float64 {
	if s.coord == nil {
		return nil
	}
	return s.coord.Levels()
}

// ─────────────────────────────────────────────────────────────────────────────
// Transcription Providers
// ─────────────────────────────────────────────────────────────────────────────

// GetProviders describes all registered providers for the settings UI.
func (s *Service) GetProviders() []types.ProviderInfo {
	if s.registry == nil {
		return nil
	}

	providers := s.registry.List()
	infos := make([]types.ProviderInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, types.ProviderInfo{
			Identifier:         p.Identifier(),
			Name:               p.Name(),
			RequiresCredential: p.RequiresCredential(),
			Available:          p.IsAvailable(context.Background()),
			SetupProgress:      p.SetupProgress(),
		})
	}
	return infos
}

// SetupProvider runs one-time provider setup (e.g. model download) in the
// background, emitting progress events.
func (s *Service) SetupProvider(identifier string) error {
	if s.registry == nil {
		return fmt.Errorf("providers not initialized")
	}
	provider := s.registry.Get(identifier)
	if provider == nil {
		return fmt.Errorf("provider not found: %s", identifier)
	}

	go func() {
		err := provider.Setup(func(percent int) {
			s.emit(EventSetupProgress, SetupProgress{Provider: identifier, Percent: percent})
		})
		if err != nil {
			slog.Error("provider setup", "provider", identifier, "error", err)
			s.emit(EventSetupProgress, SetupProgress{Provider: identifier, Percent: -1})
		}
	}()

	return nil
}

// GetSetupProgress returns the setup progress for a provider.
func (s *Service) GetSetupProgress(identifier string) int {
	if s.registry == nil {
		return -1
	}
	provider := s.registry.Get(identifier)
	if provider == nil {
		return -1
	}
	return provider.SetupProgress()
}

// ─────────────────────────────────────────────────────────────────────────────
// Settings
// ─────────────────────────────────────────────────────────────────────────────

// GetSpeechConfig returns the speech service configuration.
func (s *Service) GetSpeechConfig() types.SpeechConfig {
	return s.cfg.GetSpeechConfig()
}

// SetSpeechConfig sets the speech service configuration.
func (s *Service) SetSpeechConfig(cfg types.SpeechConfig) error {
	if err := s.cfg.SetSpeechConfig(cfg); err != nil {
		return err
	}
	s.reloadProviders()
	return nil
}

// GetEnhanceConfig returns the enhancement configuration.
func (s *Service) GetEnhanceConfig() types.EnhanceConfig {
	return s.cfg.GetEnhanceConfig()
}

// SetEnhanceConfig sets the enhancement configuration.
func (s *Service) SetEnhanceConfig(cfg types.EnhanceConfig) error {
	return s.cfg.SetEnhanceConfig(cfg)
}

// GetSmartPaste reports whether smart paste is enabled.
func (s *Service) GetSmartPaste() bool {
	return s.cfg.SmartPasteEnabled()
}

// SetSmartPaste toggles smart paste.
func (s *Service) SetSmartPaste(enabled bool) error {
	return s.cfg.SetSmartPaste(enabled)
}

// GetCredentials returns all API credentials.
func (s *Service) GetCredentials() []types.APICredential {
	return s.cfg.GetCredentials()
}

// AddCredential adds a new API credential.
func (s *Service) AddCredential(cred types.APICredential) error {
	return s.cfg.AddCredential(cred)
}

// UpdateCredential updates an existing credential.
func (s *Service) UpdateCredential(id string, cred types.APICredential) error {
	if err := s.cfg.UpdateCredential(id, cred); err != nil {
		return err
	}
	s.reloadProviders()
	return nil
}

// RemoveCredential removes a credential by ID.
func (s *Service) RemoveCredential(id string) error {
	return s.cfg.RemoveCredential(id)
}

func (s *Service) reloadProviders() {
	if s.registry == nil {
		return
	}
	for _, p := range s.registry.List() {
		p.ReloadPreferences()
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// History
// ─────────────────────────────────────────────────────────────────────────────

// GetHistory returns all saved transcriptions, newest first.
func (s *Service) GetHistory() ([]types.TranscriptionRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history store not available")
	}
	return s.store.List(context.Background())
}

// DeleteHistoryRecord removes one transcription from history.
func (s *Service) DeleteHistoryRecord(id string) error {
	if s.store == nil {
		return fmt.Errorf("history store not available")
	}
	if err := s.store.Delete(context.Background(), id); err != nil {
		return err
	}
	s.emit(EventHistoryChanged, nil)
	return nil
}

// ClearHistory removes all transcriptions.
func (s *Service) ClearHistory() error {
	if s.store == nil {
		return fmt.Errorf("history store not available")
	}
	if err := s.store.Clear(context.Background()); err != nil {
		return err
	}
	s.emit(EventHistoryChanged, nil)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Permissions & Language
// ─────────────────────────────────────────────────────────────────────────────

// GetAccessibilityPermission returns whether accessibility is enabled.
func (s *Service) GetAccessibilityPermission() bool {
	return s.paster.HasPermission()
}

// RequestAccessibilityPermission shows the system accessibility prompt.
func (s *Service) RequestAccessibilityPermission() bool {
	return s.paster.RequestPermission()
}

// OpenAccessibilitySettings opens the accessibility pane of System Settings.
func (s *Service) OpenAccessibilitySettings() {
	s.paster.OpenPermissionSettings()
}

// GetMicrophonePermission returns whether microphone access is granted.
func (s *Service) GetMicrophonePermission() bool {
	return s.recorder != nil && s.recorder.HasPermission()
}

// DetectLanguage detects the language of the given text.
func (s *Service) DetectLanguage(text string) types.DetectResult {
	result, ok := s.detector.Detect(text)
	if !ok {
		return types.DetectResult{Code: "auto", Name: "Unknown"}
	}
	return result
}

// ─────────────────────────────────────────────────────────────────────────────
// Adapters
// ─────────────────────────────────────────────────────────────────────────────

// recorderAdapter narrows the concrete recorder to the session port.
type recorderAdapter struct {
	rec *audiocapture.Recorder
}

func (a recorderAdapter) HasPermission() bool     { return a.rec.HasPermission() }
func (a recorderAdapter) RequestPermission() bool { return a.rec.RequestPermission() }
func (a recorderAdapter) Start() error            { return a.rec.Start() }
func (a recorderAdapter) Cancel()                 { a.rec.Cancel() }
func (a recorderAdapter) Level() float64          { return a.rec.Level() }

func (a recorderAdapter) Stop() (session.Recording, error) {
	result, err := a.rec.Stop()
	if err != nil {
		return session.Recording{}, err
	}
	return session.Recording{Path: result.Path, Duration: result.Duration}, nil
}

// clipboardWriter adapts the clipboard package to the session port.
type clipboardWriter struct{}

func (clipboardWriter) SetText(text string) error {
	return clipboard.SetText(text)
}

// eventSink forwards coordinator output to the frontend and drives the
// recording-bar window visibility.
type eventSink struct {
	service *Service
}

func (e *eventSink) StateChanged(s session.State) {
	e.service.emit(EventRecordingState, stateDTO(s))

	switch s.Phase {
	case session.PhaseIdle:
		e.service.hideBar()
	case session.PhaseCompleted:
		if s.Pasted {
			e.service.hideBar()
		}
	}
}

func (e *eventSink) LevelsChanged(levels []float64) {
	e.service.emit(EventRecordingLevels, levels)
}

func stateDTO(s session.State) types.RecordingStateDTO {
	return types.RecordingStateDTO{
		Phase:               string(s.Phase),
		Progress:            s.Progress,
		Text:                s.Text,
		Pasted:              s.Pasted,
		SmartPasteAttempted: s.SmartPasteAttempted,
		Message:             s.Message,
	}
}
