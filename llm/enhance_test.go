package llm

import (
	"context"
	"errors"
	"testing"
)

type fakeCompleter struct {
	result string
	err    error
	got    []Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	f.got = messages
	return f.result, f.err
}

func TestEnhanceUsesSystemPrompt(t *testing.T) {
	completer := &fakeCompleter{result: "Cleaned up."}
	e := NewEnhancer(completer, "custom prompt")

	got, err := e.Enhance(context.Background(), "cleaned up")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if got != "Cleaned up." {
		t.Errorf("got %q", got)
	}

	if len(completer.got) != 2 {
		t.Fatalf("messages = %d, want 2", len(completer.got))
	}
	if completer.got[0].Role != "system" || completer.got[0].Content != "custom prompt" {
		t.Errorf("system message = %+v", completer.got[0])
	}
	if completer.got[1].Role != "user" || completer.got[1].Content != "cleaned up" {
		t.Errorf("user message = %+v", completer.got[1])
	}
}

func TestEnhanceDefaultsPrompt(t *testing.T) {
	completer := &fakeCompleter{result: "x"}
	e := NewEnhancer(completer, "")

	if _, err := e.Enhance(context.Background(), "y"); err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if completer.got[0].Content != DefaultEnhancePrompt {
		t.Error("empty prompt should fall back to the default")
	}
}

func TestEnhanceBlankInputPassesThrough(t *testing.T) {
	completer := &fakeCompleter{}
	e := NewEnhancer(completer, "")

	got, err := e.Enhance(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if got != "   " {
		t.Errorf("got %q, want input unchanged", got)
	}
	if completer.got != nil {
		t.Error("blank input should not hit the completer")
	}
}

func TestEnhancePropagatesCompleterError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	e := NewEnhancer(completer, "")

	if _, err := e.Enhance(context.Background(), "text"); err == nil {
		t.Error("expected error")
	}
}

func TestEnhanceRejectsEmptyCompletion(t *testing.T) {
	completer := &fakeCompleter{result: "  \n "}
	e := NewEnhancer(completer, "")

	if _, err := e.Enhance(context.Background(), "text"); err == nil {
		t.Error("expected error for empty completion")
	}
}

func TestEnhanceTrimsResult(t *testing.T) {
	completer := &fakeCompleter{result: "\n Cleaned. \n"}
	e := NewEnhancer(completer, "")

	got, err := e.Enhance(context.Background(), "text")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if got != "Cleaned." {
		t.Errorf("got %q", got)
	}
}

func TestGeminiBuildRequestSplitsSystemPrompt(t *testing.T) {
	c := &geminiCompleter{cfg: completerConfig{maxTokens: 100, temperature: 0.3}}

	req := c.buildRequest([]Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	})

	if req.SystemInstruction == nil {
		t.Fatal("system instruction missing")
	}
	if req.SystemInstruction.Parts[0].Text != "be terse\n" {
		t.Errorf("system = %q", req.SystemInstruction.Parts[0].Text)
	}

	if len(req.Contents) != 2 {
		t.Fatalf("contents = %d, want 2", len(req.Contents))
	}
	if req.Contents[0].Role != "user" {
		t.Errorf("role[0] = %q", req.Contents[0].Role)
	}
	if req.Contents[1].Role != "model" {
		t.Errorf("role[1] = %q, want model", req.Contents[1].Role)
	}
	if req.GenerationConfig.MaxOutputTokens != 100 {
		t.Errorf("max tokens = %d", req.GenerationConfig.MaxOutputTokens)
	}
}

func TestNewCompleterSelectsBackend(t *testing.T) {
	tests := []struct {
		apiType string
		want    string
	}{
		{"gemini", "*llm.geminiCompleter"},
		{"claude", "*llm.claudeCompleter"},
		{"openai", "*llm.openaiCompleter"},
		{"openai-compatible", "*llm.openaiCompleter"},
		{"unknown", "*llm.openaiCompleter"},
	}

	for _, tt := range tests {
		c := NewCompleter(tt.apiType, "key", "", "model", Options{})
		if got := typeName(c); got != tt.want {
			t.Errorf("NewCompleter(%q) = %s, want %s", tt.apiType, got, tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *geminiCompleter:
		return "*llm.geminiCompleter"
	case *claudeCompleter:
		return "*llm.claudeCompleter"
	case *openaiCompleter:
		return "*llm.openaiCompleter"
	default:
		return "unknown"
	}
}
