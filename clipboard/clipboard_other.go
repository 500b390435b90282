//go:build !darwin

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard is only supported on macOS")

func getClipboardText() (string, error) { return "", errUnsupported }
func setClipboardText(string) error     { return errUnsupported }
