//go:build darwin

package clipboard

import (
	"errors"
	"sync"
	"unsafe"
)

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
// #include <stdlib.h>
// const char* getClipboardContent() {
//     NSPasteboard *pasteboard = [NSPasteboard generalPasteboard];
//     NSString *string = [pasteboard stringForType:NSPasteboardTypeString];
//     return [string UTF8String];
// }
// int setClipboardContent(const char* text) {
//     NSPasteboard *pasteboard = [NSPasteboard generalPasteboard];
//     [pasteboard clearContents];
//     NSString *string = [NSString stringWithUTF8String:text];
//     if (string == nil) return 0;
//     return [pasteboard setString:string forType:NSPasteboardTypeString] ? 1 : 0;
// }
import "C"

var clipboardLock sync.RWMutex

func getClipboardText() (string, error) {
	clipboardLock.RLock()
	defer clipboardLock.RUnlock()

	cstr := C.getClipboardContent()
	if cstr == nil {
		return "", errors.New("failed to get clipboard content")
	}
	return C.GoString(cstr), nil
}

func setClipboardText(text string) error {
	clipboardLock.Lock()
	defer clipboardLock.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if C.setClipboardContent(ctext) == 0 {
		return errors.New("failed to set clipboard content")
	}
	return nil
}
