package config

import (
	"testing"

	"go.scrib.dev/scrib/internal/types"
)

func testConfig(t *testing.T) *Config {
	t.Helper()

	dir := t.TempDir()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = orig })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	cfg := testConfig(t)

	if cfg.GetSpeechConfig().Provider != "speech-darwin" {
		t.Errorf("default provider = %q", cfg.GetSpeechConfig().Provider)
	}
	if !cfg.SmartPasteEnabled() {
		t.Error("smart paste should default to enabled")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.AddCredential(types.APICredential{
		Name:   "OpenAI",
		Type:   "openai",
		APIKey: "sk-test",
	}); err != nil {
		t.Fatalf("AddCredential: %v", err)
	}
	if err := cfg.SetSmartPaste(false); err != nil {
		t.Fatalf("SetSmartPaste: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.GetCredentials()) != 1 {
		t.Fatalf("credentials = %d, want 1", len(loaded.GetCredentials()))
	}
	if loaded.GetCredentials()[0].APIKey != "sk-test" {
		t.Error("api key not persisted")
	}
	if loaded.SmartPasteEnabled() {
		t.Error("smart paste toggle not persisted")
	}
}

func TestCredentialLifecycle(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.AddCredential(types.APICredential{Name: "A", Type: "openai", APIKey: "k1"}); err != nil {
		t.Fatalf("AddCredential: %v", err)
	}
	id := cfg.GetCredentials()[0].ID
	if id == "" {
		t.Fatal("credential should get a generated id")
	}

	if err := cfg.UpdateCredential(id, types.APICredential{Name: "A2", Type: "openai", APIKey: "k2"}); err != nil {
		t.Fatalf("UpdateCredential: %v", err)
	}
	got := cfg.GetCredential(id)
	if got == nil || got.Name != "A2" || got.APIKey != "k2" {
		t.Errorf("updated credential = %+v", got)
	}
	if got.ID != id {
		t.Error("update must preserve the id")
	}

	if err := cfg.RemoveCredential(id); err != nil {
		t.Fatalf("RemoveCredential: %v", err)
	}
	if cfg.GetCredential(id) != nil {
		t.Error("credential not removed")
	}
}

func TestCredentialValidation(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name string
		cred types.APICredential
	}{
		{"missing name", types.APICredential{Type: "openai", APIKey: "k"}},
		{"missing key", types.APICredential{Name: "A", Type: "openai"}},
		{"compatible without base url", types.APICredential{Name: "A", Type: "openai-compatible", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cfg.AddCredential(tt.cred); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRemoveCredentialInUse(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.AddCredential(types.APICredential{Name: "A", Type: "openai", APIKey: "k"}); err != nil {
		t.Fatalf("AddCredential: %v", err)
	}
	id := cfg.GetCredentials()[0].ID

	if err := cfg.SetSpeechConfig(types.SpeechConfig{Provider: "whisper-api", CredentialID: id}); err != nil {
		t.Fatalf("SetSpeechConfig: %v", err)
	}
	if err := cfg.RemoveCredential(id); err == nil {
		t.Error("expected in-use error for speech config")
	}

	if err := cfg.SetSpeechConfig(types.SpeechConfig{Provider: "speech-darwin"}); err != nil {
		t.Fatalf("SetSpeechConfig: %v", err)
	}
	if err := cfg.SetEnhanceConfig(types.EnhanceConfig{
		Enabled:      true,
		CredentialID: id,
		Model:        "gpt-4o-mini",
	}); err != nil {
		t.Fatalf("SetEnhanceConfig: %v", err)
	}
	if err := cfg.RemoveCredential(id); err == nil {
		t.Error("expected in-use error for enhance config")
	}
}

func TestSetSpeechConfigValidation(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.SetSpeechConfig(types.SpeechConfig{}); err == nil {
		t.Error("expected error for missing provider")
	}
	if err := cfg.SetSpeechConfig(types.SpeechConfig{Provider: "whisper-api", CredentialID: "nope"}); err == nil {
		t.Error("expected error for unknown credential")
	}

	if err := cfg.AddCredential(types.APICredential{Name: "C", Type: "claude", APIKey: "k"}); err != nil {
		t.Fatalf("AddCredential: %v", err)
	}
	id := cfg.GetCredentials()[0].ID
	if err := cfg.SetSpeechConfig(types.SpeechConfig{Provider: "whisper-api", CredentialID: id}); err == nil {
		t.Error("expected error for non-OpenAI credential")
	}
}

func TestSetEnhanceConfigDefaults(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.SetEnhanceConfig(types.EnhanceConfig{Enabled: false}); err != nil {
		t.Fatalf("SetEnhanceConfig: %v", err)
	}
	got := cfg.GetEnhanceConfig()
	if got.MaxTokens != types.DefaultMaxTokens {
		t.Errorf("max tokens = %d, want default", got.MaxTokens)
	}
	if got.Temperature != types.DefaultTemperature {
		t.Errorf("temperature = %v, want default", got.Temperature)
	}
}

func TestSetEnhanceConfigValidation(t *testing.T) {
	cfg := testConfig(t)

	if err := cfg.SetEnhanceConfig(types.EnhanceConfig{Enabled: true}); err == nil {
		t.Error("expected error for missing credential")
	}
	if err := cfg.SetEnhanceConfig(types.EnhanceConfig{Enabled: true, CredentialID: "nope", Model: "m"}); err == nil {
		t.Error("expected error for unknown credential")
	}
}
