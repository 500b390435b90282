package langdetect

import "testing"

func TestDetectEnglish(t *testing.T) {
	d := New()

	result, ok := d.Detect("The quick brown fox jumps over the lazy dog near the river bank.")
	if !ok {
		t.Fatal("expected a confident detection")
	}
	if result.Code != "en" {
		t.Errorf("code = %q, want en", result.Code)
	}
	if result.Name != "English" {
		t.Errorf("name = %q, want English", result.Name)
	}
}

func TestDetectRejectsEmptyAndBlank(t *testing.T) {
	d := New()

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := d.Detect(text); ok {
			t.Errorf("Detect(%q) should fail", text)
		}
	}
}

func TestCodeFallsBackToEmpty(t *testing.T) {
	d := New()

	if got := d.Code(""); got != "" {
		t.Errorf("Code = %q, want empty", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en", "English"},
		{"fr", "French"},
		{"ja", "Japanese"},
	}

	for _, tt := range tests {
		if got := displayName(tt.code); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
