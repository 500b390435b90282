//go:build darwin

package focus

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
// int frontmostApplicationPID() {
//     NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
//     if (app == nil) return -1;
//     return (int)[app processIdentifier];
// }
// int activateApplication(int pid) {
//     NSRunningApplication *app =
//         [NSRunningApplication runningApplicationWithProcessIdentifier:(pid_t)pid];
//     if (app == nil || [app isTerminated]) return 0;
//     return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 1 : 0;
// }
import "C"

import "os"

func frontmostAppPID() int {
	return int(C.frontmostApplicationPID())
}

func activateApp(pid int) bool {
	return C.activateApplication(C.int(pid)) == 1
}

func ownPID() int {
	return os.Getpid()
}
