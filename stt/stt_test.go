package stt

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	id     string
	closed bool
}

func (s *stubProvider) Identifier() string              { return s.id }
func (s *stubProvider) Name() string                    { return s.id }
func (s *stubProvider) RequiresCredential() bool        { return false }
func (s *stubProvider) ValidateConfig() error           { return nil }
func (s *stubProvider) SetProgressHandler(func(string)) {}
func (s *stubProvider) ReloadPreferences()              {}
func (s *stubProvider) SetupProgress() int              { return 100 }
func (s *stubProvider) Setup(func(int)) error           { return nil }
func (s *stubProvider) Close() error                    { s.closed = true; return nil }

func (s *stubProvider) IsAvailable(context.Context) bool { return true }

func (s *stubProvider) Transcribe(context.Context, string) (string, error) {
	return "", nil
}

func TestRegistryOrderAndLookup(t *testing.T) {
	r := NewRegistry()
	a := &stubProvider{id: "a"}
	b := &stubProvider{id: "b"}

	r.Register(a)
	r.Register(b)

	if got := r.Get("a"); got != a {
		t.Errorf("Get(a) = %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}

	list := r.List()
	if len(list) != 2 || list[0] != a || list[1] != b {
		t.Errorf("List() out of order: %v", list)
	}

	// Re-registering replaces without duplicating the order entry.
	a2 := &stubProvider{id: "a"}
	r.Register(a2)
	list = r.List()
	if len(list) != 2 || list[0] != a2 {
		t.Errorf("re-register broke ordering: %v", list)
	}
}

func TestRegistryCloseClosesAll(t *testing.T) {
	r := NewRegistry()
	a := &stubProvider{id: "a"}
	b := &stubProvider{id: "b"}
	r.Register(a)
	r.Register(b)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("not all providers closed")
	}
}

func TestParseWhisperOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json segments",
			in:   `{"transcription":[{"text":" Hello"},{"text":" world."}]}`,
			want: "Hello world.",
		},
		{
			name: "json empty",
			in:   `{"transcription":[]}`,
			want: "",
		},
		{
			name: "plain text fallback",
			in:   "  Hello from an older build.\n",
			want: "Hello from an older build.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWhisperOutput([]byte(tt.in))
			if err != nil {
				t.Fatalf("parseWhisperOutput: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "connection refused" }
func (fakeNetError) Timeout() bool   { return false }
func (fakeNetError) Temporary() bool { return true }

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"network", fakeNetError{}, ErrNetwork},
		{"deadline", context.DeadlineExceeded, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyAPIError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	generic := classifyAPIError(errors.New("boom"))
	for _, sentinel := range []error{ErrNoCredential, ErrInvalidCredential, ErrRateLimited, ErrNetwork} {
		if errors.Is(generic, sentinel) {
			t.Errorf("generic error misclassified as %v", sentinel)
		}
	}
}

func TestWhisperAPIRequiresCredential(t *testing.T) {
	w := NewWhisperAPI(func() WhisperAPIConfig {
		return WhisperAPIConfig{}
	})

	if err := w.ValidateConfig(); !errors.Is(err, ErrNoCredential) {
		t.Errorf("ValidateConfig = %v, want ErrNoCredential", err)
	}
	if w.IsAvailable(context.Background()) {
		t.Error("provider without key should not be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := w.Transcribe(ctx, "nonexistent.wav"); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Transcribe = %v, want ErrNoCredential", err)
	}
}

func TestWhisperAPIReloadPicksUpCredential(t *testing.T) {
	key := ""
	w := NewWhisperAPI(func() WhisperAPIConfig {
		return WhisperAPIConfig{APIKey: key}
	})

	if w.IsAvailable(context.Background()) {
		t.Fatal("should start unavailable")
	}

	key = "sk-test"
	w.ReloadPreferences()
	if !w.IsAvailable(context.Background()) {
		t.Error("reload should pick up the new credential")
	}
}

func TestWhisperLocalValidatesModel(t *testing.T) {
	w, err := NewWhisperLocal(WhisperLocalConfig{
		ModelSize: "base",
		ModelDir:  t.TempDir(), // empty: model not downloaded
		BinPath:   "/usr/bin/true",
	})
	if err != nil {
		t.Fatalf("NewWhisperLocal: %v", err)
	}

	if verr := w.ValidateConfig(); !errors.Is(verr, ErrModelNotDownloaded) {
		t.Errorf("ValidateConfig = %v, want ErrModelNotDownloaded", verr)
	}
	if w.IsAvailable(context.Background()) {
		t.Error("provider without model should not be available")
	}
	if got := w.SetupProgress(); got != -1 {
		t.Errorf("SetupProgress = %d, want -1", got)
	}
}

func TestWhisperLocalRejectsUnknownModel(t *testing.T) {
	if _, err := NewWhisperLocal(WhisperLocalConfig{ModelSize: "enormous"}); err == nil {
		t.Error("expected error for unknown model size")
	}
}
