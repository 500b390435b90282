// Package focus tracks the application that was frontmost before the
// recording bar appeared, so smart paste can return focus to it.
package focus

import "sync"

// Tracker remembers the previously frontmost application by process id.
type Tracker struct {
	mu  sync.Mutex
	pid int
}

// New creates a Tracker.
func New() *Tracker {
	return &Tracker{pid: -1}
}

// CapturePrevious snapshots the currently frontmost application. Call this
// before showing any window of our own.
func (t *Tracker) CapturePrevious() {
	pid := frontmostAppPID()

	t.mu.Lock()
	defer t.mu.Unlock()
	if pid > 0 && pid != ownPID() {
		t.pid = pid
	}
}

// HasPrevious reports whether a previous application was captured.
func (t *Tracker) HasPrevious() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pid > 0
}

// RestorePrevious activates the captured application and clears the
// snapshot. Returns false when there is nothing to restore or activation
// fails.
func (t *Tracker) RestorePrevious() bool {
	t.mu.Lock()
	pid := t.pid
	t.pid = -1
	t.mu.Unlock()

	if pid <= 0 {
		return false
	}
	return activateApp(pid)
}
