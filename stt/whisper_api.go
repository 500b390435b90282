package stt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultWhisperModel = "whisper-1"

// WhisperAPIConfig holds configuration for the cloud transcription provider.
type WhisperAPIConfig struct {
	APIKey   string
	BaseURL  string // optional, for OpenAI-compatible endpoints
	Model    string // optional, defaults to "whisper-1"
	Language string // optional, empty or "auto" for auto-detect
}

// WhisperAPI implements Provider using the OpenAI audio transcription API.
type WhisperAPI struct {
	load func() WhisperAPIConfig

	mu       sync.RWMutex
	cfg      WhisperAPIConfig
	client   openai.Client
	progress func(string)
}

// NewWhisperAPI creates the cloud provider. load is re-invoked by
// ReloadPreferences so credential changes take effect without a restart.
func NewWhisperAPI(load func() WhisperAPIConfig) *WhisperAPI {
	w := &WhisperAPI{load: load}
	w.ReloadPreferences()
	return w
}

func (w *WhisperAPI) Identifier() string        { return "whisper-api" }
func (w *WhisperAPI) Name() string              { return "OpenAI Whisper API" }
func (w *WhisperAPI) RequiresCredential() bool  { return true }
func (w *WhisperAPI) SetupProgress() int        { return 100 }
func (w *WhisperAPI) Setup(func(int)) error     { return w.ValidateConfig() }
func (w *WhisperAPI) Close() error              { return nil }

func (w *WhisperAPI) IsAvailable(context.Context) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg.APIKey != ""
}

// ReloadPreferences re-reads provider settings and rebuilds the client.
func (w *WhisperAPI) ReloadPreferences() {
	cfg := w.load()
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	w.mu.Lock()
	w.cfg = cfg
	w.client = openai.NewClient(opts...)
	w.mu.Unlock()
}

// ValidateConfig checks the provider configuration without a network call.
func (w *WhisperAPI) ValidateConfig() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.cfg.APIKey == "" {
		return fmt.Errorf("whisper api: %w", ErrNoCredential)
	}
	return nil
}

// SetProgressHandler registers the phase label callback.
func (w *WhisperAPI) SetProgressHandler(fn func(progress string)) {
	w.mu.Lock()
	w.progress = fn
	w.mu.Unlock()
}

// Transcribe uploads the recorded file and returns the transcribed text.
func (w *WhisperAPI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	w.mu.RLock()
	cfg := w.cfg
	client := w.client
	progress := w.progress
	w.mu.RUnlock()

	if cfg.APIKey == "" {
		return "", fmt.Errorf("whisper api: %w", ErrNoCredential)
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	if progress != nil {
		progress("Transcribing…")
	}

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(cfg.Model),
	}
	// The API rejects "auto"; an absent language means auto-detect.
	if cfg.Language != "" && cfg.Language != "auto" {
		params.Language = openai.String(cfg.Language)
	}

	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", classifyAPIError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyRecording
	}
	return text, nil
}

// classifyAPIError maps transport and HTTP failures onto the typed taxonomy.
func classifyAPIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrInvalidCredential, apierr.Error())
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, apierr.Error())
		}
		return fmt.Errorf("transcription api: %w", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("transcription api: %w", err)
}
