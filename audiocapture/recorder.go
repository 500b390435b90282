// Package audiocapture records microphone audio to a temporary WAV file
// using AVFoundation on macOS.
package audiocapture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrAlreadyRecording is returned when starting while a capture is running.
var ErrAlreadyRecording = errors.New("already recording")

// ErrNotRecording is returned when stopping while no capture is running.
var ErrNotRecording = errors.New("not recording")

// Whisper models expect 16 kHz mono input.
const (
	SampleRate = 16000
	Channels   = 1
)

// Result is a finalized capture.
type Result struct {
	Path     string
	Duration time.Duration
}

// recorderImpl is the platform-specific recording backend.
type recorderImpl interface {
	hasPermission() bool
	requestPermission() bool
	start(path string) error
	stop() error
	cancel()
	level() float64
}

// Recorder captures microphone input into a temporary file. Only one
// capture runs at a time.
type Recorder struct {
	mu        sync.Mutex
	impl      recorderImpl
	recording bool
	startTime time.Time
	path      string
}

// New creates a Recorder for the current platform.
func New() (*Recorder, error) {
	impl, err := newRecorderImpl()
	if err != nil {
		return nil, err
	}
	return &Recorder{impl: impl}, nil
}

// HasPermission reports whether microphone access is already granted.
func (r *Recorder) HasPermission() bool {
	return r.impl.hasPermission()
}

// RequestPermission shows the OS microphone prompt and blocks until the
// user answers.
func (r *Recorder) RequestPermission() bool {
	return r.impl.requestPermission()
}

// Start begins capturing into a fresh temporary file.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrAlreadyRecording
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("scrib-%d.wav", time.Now().UnixNano()))
	if err := r.impl.start(path); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}

	r.recording = true
	r.startTime = time.Now()
	r.path = path
	return nil
}

// Stop finalizes the capture and returns the recorded file. The caller
// owns the file and is responsible for removing it.
func (r *Recorder) Stop() (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return Result{}, ErrNotRecording
	}

	duration := time.Since(r.startTime)
	path := r.path
	r.recording = false
	r.path = ""

	if err := r.impl.stop(); err != nil {
		os.Remove(path)
		return Result{}, fmt.Errorf("stop recording: %w", err)
	}
	return Result{Path: path, Duration: duration}, nil
}

// Cancel aborts the capture and discards the partial file.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}

	r.impl.cancel()
	os.Remove(r.path)
	r.recording = false
	r.path = ""
}

// Level returns the instantaneous input level in [0, 1]. Returns 0 while
// not recording.
func (r *Recorder) Level() float64 {
	r.mu.Lock()
	recording := r.recording
	r.mu.Unlock()

	if !recording {
		return 0
	}
	return r.impl.level()
}
