// Package types provides shared type definitions for the application.
package types

import "time"

// APICredential holds a named API key for a cloud service.
type APICredential struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // "openai", "openai-compatible", "claude", "gemini"
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key"`
}

// SpeechConfig selects the active transcription provider.
type SpeechConfig struct {
	Provider     string `json:"provider"`                // stt provider identifier, e.g. "whisper-api"
	CredentialID string `json:"credential_id,omitempty"` // required for cloud providers
	Model        string `json:"model,omitempty"`         // provider-specific model name
	Language     string `json:"language,omitempty"`      // source language, empty for auto-detect
}

// EnhanceConfig controls the optional LLM clean-up pass after transcription.
type EnhanceConfig struct {
	Enabled      bool    `json:"enabled"`
	CredentialID string  `json:"credential_id,omitempty"`
	Model        string  `json:"model,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
}

// DefaultMaxTokens is the default max tokens if not specified.
const DefaultMaxTokens = 1000

// DefaultTemperature is the default temperature if not specified.
const DefaultTemperature = 0.3

// RecordingStateDTO is the wire form of the coordinator state sent to the UI.
type RecordingStateDTO struct {
	Phase               string `json:"phase"` // "idle", "recording", "processing", "completed", "error"
	Progress            string `json:"progress,omitempty"`
	Text                string `json:"text,omitempty"`
	Pasted              bool   `json:"pasted,omitempty"`
	SmartPasteAttempted bool   `json:"smartPasteAttempted,omitempty"`
	Message             string `json:"message,omitempty"`
}

// TranscriptionRecord is one completed transcription in the history list.
type TranscriptionRecord struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Provider  string        `json:"provider"`
	Language  string        `json:"language,omitempty"`
	Duration  time.Duration `json:"duration"`
	AudioPath string        `json:"audioPath,omitempty"`
}

// ProviderInfo describes a transcription provider for the settings UI.
type ProviderInfo struct {
	Identifier         string `json:"identifier"`
	Name               string `json:"name"`
	RequiresCredential bool   `json:"requiresCredential"`
	Available          bool   `json:"available"`
	SetupProgress      int    `json:"setupProgress"` // 0-100, -1 if setup not started
}

// DetectResult represents the result of language detection.
type DetectResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
