//go:build darwin

package audiocapture

/*
#cgo CFLAGS: -x objective-c -fobjc-arc -mmacosx-version-min=10.15
#cgo LDFLAGS: -framework AVFoundation -framework Foundation -framework CoreAudio

#include <stdlib.h>

// Implemented in recorder_darwin.m
extern int micAuthorizationStatus(void);
extern int requestMicAccess(void);
extern int startWAVRecording(const char* path, int sampleRate, int channels, char** errOut);
extern void stopWAVRecording(void);
extern void cancelWAVRecording(void);
extern float recordingLevel(void);
*/
import "C"

import (
	"errors"
	"unsafe"
)

// avRecorder backs Recorder with AVAudioRecorder.
type avRecorder struct{}

func newRecorderImpl() (recorderImpl, error) {
	return &avRecorder{}, nil
}

func (a *avRecorder) hasPermission() bool {
	// 0 undetermined, 1 authorized, 2 denied/restricted
	return C.micAuthorizationStatus() == 1
}

func (a *avRecorder) requestPermission() bool {
	return C.requestMicAccess() == 1
}

func (a *avRecorder) start(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var cErr *C.char
	if C.startWAVRecording(cPath, C.int(SampleRate), C.int(Channels), &cErr) != 0 {
		if cErr != nil {
			err := errors.New(C.GoString(cErr))
			C.free(unsafe.Pointer(cErr))
			return err
		}
		return errors.New("audiocapture: unknown error")
	}
	return nil
}

func (a *avRecorder) stop() error {
	C.stopWAVRecording()
	return nil
}

func (a *avRecorder) cancel() {
	C.cancelWAVRecording()
}

func (a *avRecorder) level() float64 {
	return float64(C.recordingLevel())
}
