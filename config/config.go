// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"go.scrib.dev/scrib/internal/types"
)

const (
	appName        = "scrib"
	configFileName = "config.json"
)

// Swappable in tests.
var userConfigDir = os.UserConfigDir

// Config represents the application configuration.
type Config struct {
	Credentials []types.APICredential `json:"credentials,omitempty"`
	Speech      *types.SpeechConfig   `json:"speech,omitempty"`
	Enhance     *types.EnhanceConfig  `json:"enhance,omitempty"`

	// SmartPaste pastes the transcription into the previous app after
	// copying. Pointer so an absent field defaults to enabled.
	SmartPaste *bool `json:"smart_paste,omitempty"`

	// HotkeyKeys is the global shortcut toggling recording.
	HotkeyKeys []string `json:"hotkey_keys,omitempty"`

	// HistoryLimit caps stored transcriptions. Zero means the store default.
	HistoryLimit int `json:"history_limit,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DataDir returns the per-user directory for databases and models.
func DataDir() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

func configPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

func defaultConfig() *Config {
	return &Config{
		Credentials: []types.APICredential{},
		Speech:      &types.SpeechConfig{Provider: "speech-darwin"},
	}
}

// SmartPasteEnabled reports whether smart paste is on. Defaults to true.
func (c *Config) SmartPasteEnabled() bool {
	return c.SmartPaste == nil || *c.SmartPaste
}

// SetSmartPaste toggles smart paste.
func (c *Config) SetSmartPaste(enabled bool) error {
	c.SmartPaste = &enabled
	return c.Save()
}

// ─────────────────────────────────────────────────────────────────────────────
// API Credential Management
// ─────────────────────────────────────────────────────────────────────────────

// GetCredentials returns all API credentials.
func (c *Config) GetCredentials() []types.APICredential {
	return c.Credentials
}

// GetCredential returns a credential by ID.
func (c *Config) GetCredential(id string) *types.APICredential {
	for i := range c.Credentials {
		if c.Credentials[i].ID == id {
			return &c.Credentials[i]
		}
	}
	return nil
}

// AddCredential adds a new API credential.
func (c *Config) AddCredential(cred types.APICredential) error {
	if err := validateCredential(cred); err != nil {
		return err
	}

	if cred.ID == "" {
		cred.ID = uuid.New().String()
	}

	c.Credentials = append(c.Credentials, cred)
	return c.Save()
}

// UpdateCredential updates an existing credential.
func (c *Config) UpdateCredential(id string, cred types.APICredential) error {
	if err := validateCredential(cred); err != nil {
		return err
	}

	idx := slices.IndexFunc(c.Credentials, func(x types.APICredential) bool {
		return x.ID == id
	})
	if idx == -1 {
		return fmt.Errorf("credential not found: %s", id)
	}

	cred.ID = id // Preserve ID
	c.Credentials[idx] = cred
	return c.Save()
}

// RemoveCredential removes a credential by ID.
// Returns error if the credential is in use.
func (c *Config) RemoveCredential(id string) error {
	if c.Speech != nil && c.Speech.CredentialID == id {
		return fmt.Errorf("credential in use by speech config")
	}
	if c.Enhance != nil && c.Enhance.CredentialID == id {
		return fmt.Errorf("credential in use by enhance config")
	}

	idx := slices.IndexFunc(c.Credentials, func(x types.APICredential) bool {
		return x.ID == id
	})
	if idx == -1 {
		return fmt.Errorf("credential not found: %s", id)
	}

	c.Credentials = slices.Delete(c.Credentials, idx, idx+1)
	return c.Save()
}

func validateCredential(cred types.APICredential) error {
	if cred.Name == "" {
		return fmt.Errorf("credential name required")
	}
	if cred.APIKey == "" {
		return fmt.Errorf("api key required")
	}
	if cred.Type == "openai-compatible" && cred.BaseURL == "" {
		return fmt.Errorf("base url required for openai-compatible")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Speech Configuration
// ─────────────────────────────────────────────────────────────────────────────

// GetSpeechConfig returns the speech configuration.
func (c *Config) GetSpeechConfig() types.SpeechConfig {
	if c.Speech == nil {
		return types.SpeechConfig{Provider: "speech-darwin"}
	}
	return *c.Speech
}

// SetSpeechConfig sets the speech configuration.
func (c *Config) SetSpeechConfig(cfg types.SpeechConfig) error {
	if cfg.Provider == "" {
		return fmt.Errorf("provider required")
	}

	if cfg.CredentialID != "" {
		cred := c.GetCredential(cfg.CredentialID)
		if cred == nil {
			return fmt.Errorf("credential not found: %s", cfg.CredentialID)
		}
		// Transcription goes through the OpenAI audio API.
		if cred.Type != "openai" && cred.Type != "openai-compatible" {
			return fmt.Errorf("speech config requires OpenAI-compatible credential")
		}
	}

	c.Speech = &cfg
	return c.Save()
}

// ─────────────────────────────────────────────────────────────────────────────
// Enhancement Configuration
// ─────────────────────────────────────────────────────────────────────────────

// GetEnhanceConfig returns the enhancement configuration.
func (c *Config) GetEnhanceConfig() types.EnhanceConfig {
	if c.Enhance == nil {
		return types.EnhanceConfig{}
	}
	return *c.Enhance
}

// SetEnhanceConfig sets the enhancement configuration.
func (c *Config) SetEnhanceConfig(cfg types.EnhanceConfig) error {
	if cfg.Enabled {
		if cfg.CredentialID == "" {
			return fmt.Errorf("credential id required")
		}
		if c.GetCredential(cfg.CredentialID) == nil {
			return fmt.Errorf("credential not found: %s", cfg.CredentialID)
		}
		if cfg.Model == "" {
			return fmt.Errorf("model required")
		}
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = types.DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = types.DefaultTemperature
	}

	c.Enhance = &cfg
	return c.Save()
}
