// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventRecordingState    = "recording-state"
	EventRecordingLevels   = "recording-levels"
	EventSetupProgress     = "stt-setup-progress"
	EventAccessibilityPerm = "accessibility-permission"
	EventHistoryChanged    = "history-changed"
)

// SetupProgress is a typed event for provider setup progress emission.
type SetupProgress struct {
	Provider string `json:"provider"`
	Percent  int    `json:"percent"`
}
