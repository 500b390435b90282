package hotkey

import "testing"

func TestNewManagerDefaultsKeys(t *testing.T) {
	m := NewManager(nil, func() {})
	if len(m.keys) != len(DefaultKeys) {
		t.Errorf("keys = %v, want defaults", m.keys)
	}

	m = NewManager([]string{"cmd", "d"}, func() {})
	if len(m.keys) != 2 || m.keys[0] != "cmd" {
		t.Errorf("keys = %v", m.keys)
	}
}

func TestStartDeniedWithoutPermission(t *testing.T) {
	m := NewManager(nil, func() {})
	m.SetPermissionCheck(func() bool { return false })

	var reported *bool
	m.SetStatusCallback(func(granted bool) { reported = &granted })

	if err := m.Start(); err == nil {
		t.Fatal("expected error when permission is denied")
	}
	if reported == nil || *reported {
		t.Error("status callback should report denial")
	}
	if m.started {
		t.Error("listener must not be marked started")
	}

	// Stop on a never-started manager is a no-op.
	m.Stop()
}
