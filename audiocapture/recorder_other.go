//go:build !darwin

package audiocapture

import "errors"

type stubRecorder struct{}

func newRecorderImpl() (recorderImpl, error) {
	return &stubRecorder{}, nil
}

func (stubRecorder) hasPermission() bool     { return false }
func (stubRecorder) requestPermission() bool { return false }
func (stubRecorder) start(string) error {
	return errors.New("audio capture is only supported on macOS")
}
func (stubRecorder) stop() error    { return nil }
func (stubRecorder) cancel()        {}
func (stubRecorder) level() float64 { return 0 }
