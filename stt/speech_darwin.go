//go:build darwin

package stt

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=10.15
#cgo LDFLAGS: -framework Speech -framework Foundation -framework AVFoundation

#include <stdlib.h>

// Implemented in speech_darwin.m
extern char* recognizeSpeechFile(const char* path, const char* locale, char** errOut);
extern int speechAuthorizationStatus(void);
extern int requestSpeechAuthorization(void);
*/
import "C"

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unsafe"
)

// SpeechDarwin implements Provider using the on-device macOS Speech
// framework. Lowest latency, no credential, no download.
type SpeechDarwin struct {
	mu       sync.RWMutex
	language string
	progress func(string)
}

// NewNativeSpeech creates the macOS Speech provider. Authorization is
// requested lazily on first use; requesting it during init can deadlock the
// main thread.
func NewNativeSpeech(language string) (Provider, error) {
	return &SpeechDarwin{language: language}, nil
}

func (s *SpeechDarwin) Identifier() string         { return "speech-darwin" }
func (s *SpeechDarwin) Name() string               { return "macOS Speech (on-device)" }
func (s *SpeechDarwin) RequiresCredential() bool   { return false }
func (s *SpeechDarwin) SetupProgress() int         { return 100 }
func (s *SpeechDarwin) ReloadPreferences()         {}
func (s *SpeechDarwin) Close() error               { return nil }
func (s *SpeechDarwin) ValidateConfig() error      { return nil }
func (s *SpeechDarwin) Setup(func(int)) error      { return nil }

func (s *SpeechDarwin) IsAvailable(context.Context) bool {
	// 0 undetermined, 1 authorized, 2 denied/restricted
	return C.speechAuthorizationStatus() != 2
}

func (s *SpeechDarwin) SetProgressHandler(fn func(progress string)) {
	s.mu.Lock()
	s.progress = fn
	s.mu.Unlock()
}

// Transcribe recognizes the recorded file with SFSpeechRecognizer.
func (s *SpeechDarwin) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if C.speechAuthorizationStatus() == 0 {
		if C.requestSpeechAuthorization() != 1 {
			return "", fmt.Errorf("speech recognition not authorized")
		}
	} else if C.speechAuthorizationStatus() == 2 {
		return "", fmt.Errorf("speech recognition not authorized")
	}

	s.mu.RLock()
	progress := s.progress
	language := s.language
	s.mu.RUnlock()

	if progress != nil {
		progress("Transcribing…")
	}

	cPath := C.CString(audioPath)
	defer C.free(unsafe.Pointer(cPath))
	cLocale := C.CString(languageToLocale(language))
	defer C.free(unsafe.Pointer(cLocale))

	var cErr *C.char
	cResult := C.recognizeSpeechFile(cPath, cLocale, &cErr)
	if cErr != nil {
		msg := C.GoString(cErr)
		C.free(unsafe.Pointer(cErr))
		return "", fmt.Errorf("speech recognition: %s", msg)
	}
	if cResult == nil {
		return "", ErrEmptyRecording
	}
	defer C.free(unsafe.Pointer(cResult))

	text := strings.TrimSpace(C.GoString(cResult))
	if text == "" {
		return "", ErrEmptyRecording
	}
	return text, nil
}

// languageToLocale converts language codes to macOS locale identifiers.
func languageToLocale(lang string) string {
	if lang == "" || lang == "auto" {
		return "en-US"
	}

	locales := map[string]string{
		"en": "en-US",
		"zh": "zh-CN",
		"ja": "ja-JP",
		"ko": "ko-KR",
		"fr": "fr-FR",
		"de": "de-DE",
		"es": "es-ES",
		"it": "it-IT",
		"pt": "pt-BR",
		"ru": "ru-RU",
	}
	if locale, ok := locales[lang]; ok {
		return locale
	}
	if strings.Contains(lang, "-") || strings.Contains(lang, "_") {
		return lang
	}
	return lang + "-" + strings.ToUpper(lang)
}
