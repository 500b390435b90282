package session

import (
	"errors"

	"go.scrib.dev/scrib/stt"
)

// describeTranscribeError converts a provider failure into the single
// user-facing message surfaced through the error state.
func describeTranscribeError(err error) string {
	switch {
	case errors.Is(err, stt.ErrNoCredential):
		return "API key required. Add a credential in Settings."
	case errors.Is(err, stt.ErrInvalidCredential):
		return "The transcription service rejected the configured API key."
	case errors.Is(err, stt.ErrRateLimited):
		return "The transcription service is rate limiting requests. Try again in a moment."
	case errors.Is(err, stt.ErrModelNotDownloaded):
		return "The speech model has not been downloaded yet. Set it up in Settings."
	case errors.Is(err, stt.ErrNetwork):
		return "Could not reach the transcription service. Check your connection."
	case errors.Is(err, stt.ErrEmptyRecording):
		return "No speech detected."
	default:
		return "Transcription failed: " + err.Error()
	}
}
