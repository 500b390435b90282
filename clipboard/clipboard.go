// Package clipboard provides access to the system pasteboard.
package clipboard

// SetText places text on the system clipboard.
func SetText(text string) error {
	return setClipboardText(text)
}

// GetText returns the current clipboard text.
func GetText() (string, error) {
	return getClipboardText()
}
