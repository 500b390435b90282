package audiocapture

import (
	"errors"
	"os"
	"testing"
	"time"
)

type fakeImpl struct {
	startErr  error
	stopErr   error
	levelVal  float64
	starts    int
	stops     int
	cancels   int
	lastPath  string
	writeFile bool
}

func (f *fakeImpl) hasPermission() bool     { return true }
func (f *fakeImpl) requestPermission() bool { return true }
func (f *fakeImpl) level() float64          { return f.levelVal }
func (f *fakeImpl) stop() error             { f.stops++; return f.stopErr }
func (f *fakeImpl) cancel()                 { f.cancels++ }

func (f *fakeImpl) start(path string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.lastPath = path
	if f.writeFile {
		if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func TestStartStopProducesResult(t *testing.T) {
	impl := &fakeImpl{writeFile: true}
	r := &Recorder{impl: impl}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if impl.lastPath == "" {
		t.Fatal("no capture path handed to the backend")
	}

	result, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if result.Path != impl.lastPath {
		t.Errorf("path = %q, want %q", result.Path, impl.lastPath)
	}
	if result.Duration <= 0 {
		t.Errorf("duration = %v", result.Duration)
	}

	t.Cleanup(func() { os.Remove(result.Path) })
}

func TestStartWhileRecordingFails(t *testing.T) {
	r := &Recorder{impl: &fakeImpl{}}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start = %v, want ErrAlreadyRecording", err)
	}
}

func TestStopWithoutRecordingFails(t *testing.T) {
	r := &Recorder{impl: &fakeImpl{}}

	if _, err := r.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop = %v, want ErrNotRecording", err)
	}
}

func TestStopFailureRemovesFile(t *testing.T) {
	impl := &fakeImpl{writeFile: true, stopErr: errors.New("backend died")}
	r := &Recorder{impl: impl}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := r.Stop(); err == nil {
		t.Fatal("expected stop error")
	}
	if _, err := os.Stat(impl.lastPath); !os.IsNotExist(err) {
		t.Error("partial file should be removed on stop failure")
	}
}

func TestCancelDiscardsFile(t *testing.T) {
	impl := &fakeImpl{writeFile: true}
	r := &Recorder{impl: impl}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Cancel()

	if impl.cancels != 1 {
		t.Errorf("cancels = %d", impl.cancels)
	}
	if _, err := os.Stat(impl.lastPath); !os.IsNotExist(err) {
		t.Error("cancel should remove the partial file")
	}

	// Cancel again is a no-op.
	r.Cancel()
	if impl.cancels != 1 {
		t.Errorf("cancels after idle Cancel = %d", impl.cancels)
	}
}

func TestLevelOnlyWhileRecording(t *testing.T) {
	impl := &fakeImpl{levelVal: 0.7}
	r := &Recorder{impl: impl}

	if got := r.Level(); got != 0 {
		t.Errorf("idle level = %v, want 0", got)
	}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := r.Level(); got != 0.7 {
		t.Errorf("recording level = %v, want 0.7", got)
	}

	time.Sleep(time.Millisecond)
	if _, err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := r.Level(); got != 0 {
		t.Errorf("stopped level = %v, want 0", got)
	}
}
