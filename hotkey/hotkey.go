// Package hotkey listens for the global shortcut that toggles recording.
package hotkey

import (
	"errors"
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// DefaultKeys is the shortcut used when none is configured.
var DefaultKeys = []string{"ctrl", "shift", "space"}

// Manager owns the global event hook. Only one Manager may run per
// process; the underlying hook is process-global.
type Manager struct {
	mu      sync.Mutex
	keys    []string
	toggle  func()
	status  func(granted bool)
	checkFn func() bool
	started bool
}

// NewManager creates a Manager that invokes toggle when the shortcut
// fires. The callback runs on the hook goroutine and must not block.
func NewManager(keys []string, toggle func()) *Manager {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Manager{keys: keys, toggle: toggle}
}

// SetStatusCallback registers a callback reporting whether the listener
// has the permission it needs. Called once during Start.
func (m *Manager) SetStatusCallback(fn func(granted bool)) {
	m.mu.Lock()
	m.status = fn
	m.mu.Unlock()
}

// SetPermissionCheck registers the accessibility check consulted before
// starting the listener.
func (m *Manager) SetPermissionCheck(fn func() bool) {
	m.mu.Lock()
	m.checkFn = fn
	m.mu.Unlock()
}

// Start registers the shortcut and begins listening.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errors.New("hotkey listener already running")
	}

	granted := true
	if m.checkFn != nil {
		granted = m.checkFn()
	}
	if m.status != nil {
		m.status(granted)
	}
	if !granted {
		return errors.New("accessibility permission not granted")
	}

	hook.Register(hook.KeyDown, m.keys, func(hook.Event) {
		m.toggle()
	})

	go func() {
		events := hook.Start()
		<-hook.Process(events)
		slog.Debug("hotkey listener stopped")
	}()

	m.started = true
	slog.Info("hotkey listener started", "keys", m.keys)
	return nil
}

// Stop tears down the global hook.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return
	}
	hook.End()
	m.started = false
}
