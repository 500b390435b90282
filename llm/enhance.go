package llm

import (
	"context"
	"fmt"
	"strings"
)

// DefaultEnhancePrompt is the system prompt used when no custom prompt is
// configured for the clean-up pass.
const DefaultEnhancePrompt = "You clean up dictated text. Fix punctuation, capitalization, and obvious " +
	"transcription mistakes. Keep the speaker's wording and meaning. Output only the corrected text."

// Enhancer rewrites transcribed text for punctuation and clarity using a
// chat completion.
type Enhancer struct {
	completer    Completer
	systemPrompt string
}

// NewEnhancer creates an Enhancer on top of the given completer.
func NewEnhancer(completer Completer, systemPrompt string) *Enhancer {
	if systemPrompt == "" {
		systemPrompt = DefaultEnhancePrompt
	}
	return &Enhancer{completer: completer, systemPrompt: systemPrompt}
}

// Enhance returns the cleaned-up text. The caller treats failures as
// non-fatal and keeps the original transcription.
func (e *Enhancer) Enhance(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	result, err := e.completer.Complete(ctx, buildEnhanceMessages(e.systemPrompt, text))
	if err != nil {
		return "", fmt.Errorf("enhance text: %w", err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return "", fmt.Errorf("enhance text: empty completion")
	}
	return result, nil
}

func buildEnhanceMessages(systemPrompt, text string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: text},
	}
}
