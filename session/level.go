package session

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLevelInterval samples the input level roughly 30 times a second.
	DefaultLevelInterval = 33 * time.Millisecond

	// DefaultLevelWindow is the number of samples kept for the live waveform.
	DefaultLevelWindow = 60
)

// levelMeter maintains a fixed-length rolling buffer of input levels used
// for live waveform feedback. Oldest sample is dropped, newest appended.
type levelMeter struct {
	mu     sync.Mutex
	levels []float64
}

func newLevelMeter(window int) *levelMeter {
	if window <= 0 {
		window = DefaultLevelWindow
	}
	return &levelMeter{levels: make([]float64, window)}
}

// push appends a sample, dropping the oldest one.
func (m *levelMeter) push(level float64) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.levels, m.levels[1:])
	m.levels[len(m.levels)-1] = level
	return m.snapshotLocked()
}

// reset flattens the buffer back to the baseline.
func (m *levelMeter) reset() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.levels {
		m.levels[i] = 0
	}
	return m.snapshotLocked()
}

func (m *levelMeter) snapshot() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *levelMeter) snapshotLocked() []float64 {
	out := make([]float64, len(m.levels))
	copy(out, m.levels)
	return out
}

// runLevelLoop pulls the instantaneous level from the recorder on a fixed
// interval until the context is cancelled. It publishes each snapshot via
// the sink and flattens the buffer on exit.
func (c *Coordinator) runLevelLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.LevelInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.sink.LevelsChanged(c.meter.reset())
			return
		case <-ticker.C:
			c.sink.LevelsChanged(c.meter.push(c.recorder.Level()))
		}
	}
}
