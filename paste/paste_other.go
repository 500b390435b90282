//go:build !darwin

package paste

func hasAccessibilityPermission() bool     { return false }
func requestAccessibilityPermission() bool { return false }
func openAccessibilitySettings()           {}
func sendPasteKeystroke() bool             { return false }
