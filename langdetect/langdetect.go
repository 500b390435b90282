// Package langdetect identifies the language of transcribed text.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"go.scrib.dev/scrib/internal/types"
)

// minConfidence rejects low-quality guesses on very short snippets.
const minConfidence = 0.5

// Detector wraps a lingua language detector. The underlying models are
// loaded lazily on first use; construction is cheap.
type Detector struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// New creates a Detector.
func New() *Detector {
	return &Detector{}
}

func (d *Detector) init() {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			WithLowAccuracyMode().
			Build()
	})
}

// Detect returns the detected language of text, or ok=false when the text
// is too short or ambiguous to classify.
func (d *Detector) Detect(text string) (types.DetectResult, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.DetectResult{}, false
	}
	d.init()

	lang, exists := d.detector.DetectLanguageOf(text)
	if !exists {
		return types.DetectResult{}, false
	}
	if d.detector.ComputeLanguageConfidence(text, lang) < minConfidence {
		return types.DetectResult{}, false
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	return types.DetectResult{Code: code, Name: displayName(code)}, true
}

// Code returns the ISO 639-1 code of the detected language, or "" when
// detection fails. Convenience form for tagging.
func (d *Detector) Code(text string) string {
	result, ok := d.Detect(text)
	if !ok {
		return ""
	}
	return result.Code
}

// displayName renders an ISO code as an English language name.
func displayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return display.English.Languages().Name(tag)
}
