package stt

import "errors"

// Typed failures surfaced by providers. The session coordinator maps these
// to user-facing messages; everything else falls back to a generic one.
var (
	// ErrNoCredential indicates the provider needs an API key and none is configured.
	ErrNoCredential = errors.New("api credential required")

	// ErrInvalidCredential indicates the service rejected the configured API key.
	ErrInvalidCredential = errors.New("api credential rejected")

	// ErrRateLimited indicates the service is throttling requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotDownloaded indicates a local model is missing and needs Setup.
	ErrModelNotDownloaded = errors.New("speech model not downloaded")

	// ErrNetwork indicates the service could not be reached.
	ErrNetwork = errors.New("transcription service unreachable")

	// ErrEmptyRecording indicates the audio contained no usable speech.
	ErrEmptyRecording = errors.New("no speech detected")
)
