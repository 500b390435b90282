//go:build !darwin

package stt

import "fmt"

// NewNativeSpeech is unavailable off macOS.
func NewNativeSpeech(language string) (Provider, error) {
	return nil, fmt.Errorf("native speech recognition is only supported on macOS")
}
