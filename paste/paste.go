// Package paste simulates the platform paste shortcut. On macOS this
// requires the accessibility permission.
package paste

import (
	"context"
	"time"
)

// Dispatcher synthesizes Cmd+V keystrokes into the frontmost application.
type Dispatcher struct{}

// New creates a Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// HasPermission reports whether the process is trusted for accessibility.
func (d *Dispatcher) HasPermission() bool {
	return hasAccessibilityPermission()
}

// RequestPermission shows the system accessibility prompt. The grant takes
// effect without restarting the process.
func (d *Dispatcher) RequestPermission() bool {
	return requestAccessibilityPermission()
}

// OpenPermissionSettings opens the accessibility pane of System Settings.
func (d *Dispatcher) OpenPermissionSettings() {
	openAccessibilitySettings()
}

// SimulatePaste waits delay for the target application to settle, then
// sends Cmd+V. Returns false when the context is cancelled first or the
// keystroke cannot be synthesized.
func (d *Dispatcher) SimulatePaste(ctx context.Context, delay time.Duration) bool {
	if delay > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
	}
	return sendPasteKeystroke()
}
