package session

import "testing"

func TestStateConstructors(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		phase  Phase
		active bool
	}{
		{"idle", Idle(), PhaseIdle, false},
		{"recording", RecordingState(), PhaseRecording, true},
		{"processing", Processing("Transcribing…"), PhaseProcessing, true},
		{"completed", Completed("hi", true, true), PhaseCompleted, false},
		{"error", Errored("boom"), PhaseError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.state.Phase != tt.phase {
				t.Errorf("phase = %q, want %q", tt.state.Phase, tt.phase)
			}
			if got := tt.state.Active(); got != tt.active {
				t.Errorf("Active() = %v, want %v", got, tt.active)
			}
		})
	}
}

func TestCompletedCarriesPasteFlags(t *testing.T) {
	s := Completed("text", false, true)
	if s.Pasted {
		t.Error("Pasted should be false")
	}
	if !s.SmartPasteAttempted {
		t.Error("SmartPasteAttempted should be true")
	}
	if s.Text != "text" {
		t.Errorf("Text = %q", s.Text)
	}
}

func TestLevelMeterRollsAndResets(t *testing.T) {
	m := newLevelMeter(4)

	if got := len(m.snapshot()); got != 4 {
		t.Fatalf("window = %d, want 4", got)
	}

	m.push(0.1)
	m.push(0.2)
	levels := m.push(0.3)

	want := []float64{0, 0.1, 0.2, 0.3}
	for i, v := range want {
		if levels[i] != v {
			t.Errorf("levels[%d] = %v, want %v", i, levels[i], v)
		}
	}

	// Window stays fixed as older samples fall off.
	m.push(0.4)
	levels = m.push(0.5)
	if len(levels) != 4 {
		t.Fatalf("window grew to %d", len(levels))
	}
	if levels[0] != 0.2 || levels[3] != 0.5 {
		t.Errorf("unexpected roll: %v", levels)
	}

	levels = m.reset()
	for i, v := range levels {
		if v != 0 {
			t.Errorf("levels[%d] = %v after reset", i, v)
		}
	}
}

func TestLevelMeterSnapshotIsCopy(t *testing.T) {
	m := newLevelMeter(2)
	m.push(0.9)

	snap := m.snapshot()
	snap[0] = 42

	if m.snapshot()[0] == 42 {
		t.Error("snapshot aliases internal buffer")
	}
}
