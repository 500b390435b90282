// Package stt provides speech-to-text provider interface and implementations.
package stt

import "context"

// Provider defines the contract a transcription back-end must satisfy.
// Implementations exist for the OpenAI API, local whisper.cpp, and the
// on-device macOS Speech framework.
type Provider interface {
	// Identifier returns the stable provider id, e.g. "whisper-api".
	Identifier() string

	// Name returns the human-readable provider name.
	Name() string

	// RequiresCredential reports whether the provider needs an API key.
	RequiresCredential() bool

	// IsAvailable reports whether the provider can transcribe right now.
	// May block briefly (e.g. checking authorization).
	IsAvailable(ctx context.Context) bool

	// ValidateConfig checks the provider's configuration without making a
	// transcription call.
	ValidateConfig() error

	// SetProgressHandler registers a callback for human-readable phase
	// labels emitted during transcription ("Downloading model…", ...).
	SetProgressHandler(fn func(progress string))

	// ReloadPreferences re-reads provider settings after they changed.
	ReloadPreferences()

	// SetupProgress returns setup progress 0-100, or -1 if not started.
	SetupProgress() int

	// Setup performs one-time initialization such as a model download.
	Setup(progress func(percent int)) error

	// Transcribe converts the recorded audio file at audioPath to text.
	// The file is consumed exactly once; the caller deletes it afterward.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Close releases resources held by the provider.
	Close() error
}

// Registry holds registered transcription providers.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	id := p.Identifier()
	if _, exists := r.providers[id]; !exists {
		r.order = append(r.order, id)
	}
	r.providers[id] = p
}

// Get returns a provider by identifier, nil if unknown.
func (r *Registry) Get(identifier string) Provider {
	return r.providers[identifier]
}

// List returns all registered providers in registration order.
func (r *Registry) List() []Provider {
	result := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.providers[id])
	}
	return result
}

// Close releases all providers.
func (r *Registry) Close() error {
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			return err
		}
	}
	return nil
}
