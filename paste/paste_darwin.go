//go:build darwin

package paste

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework ApplicationServices -framework Cocoa

#import <ApplicationServices/ApplicationServices.h>
#import <Cocoa/Cocoa.h>

static int axIsTrusted(void) {
    return AXIsProcessTrusted() ? 1 : 0;
}

static int axRequestTrust(void) {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

static void axOpenSettings(void) {
    NSString *urlString =
        @"x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility";
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:urlString]];
}

// sendCmdV posts a Cmd+V key down/up pair to the session event tap.
static int sendCmdV(void) {
    CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateCombinedSessionState);
    if (source == NULL) return 0;

    CGKeyCode keyV = 9;
    CGEventRef keyDown = CGEventCreateKeyboardEvent(source, keyV, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(source, keyV, false);
    if (keyDown == NULL || keyUp == NULL) {
        if (keyDown) CFRelease(keyDown);
        if (keyUp) CFRelease(keyUp);
        CFRelease(source);
        return 0;
    }

    CGEventSetFlags(keyDown, kCGEventFlagMaskCommand);
    CGEventSetFlags(keyUp, kCGEventFlagMaskCommand);

    CGEventPost(kCGSessionEventTap, keyDown);
    CGEventPost(kCGSessionEventTap, keyUp);

    CFRelease(keyDown);
    CFRelease(keyUp);
    CFRelease(source);
    return 1;
}
*/
import "C"

func hasAccessibilityPermission() bool {
	return C.axIsTrusted() == 1
}

func requestAccessibilityPermission() bool {
	return C.axRequestTrust() == 1
}

func openAccessibilitySettings() {
	C.axOpenSettings()
}

func sendPasteKeystroke() bool {
	return C.sendCmdV() == 1
}
