//go:build linux

package main

import "fmt"

// copyToClipboard reports that no clipboard is available; the Linux build has no X11 dependency.
func copyToClipboard(string) error {
	return fmt.Errorf("clipboard not available on this platform (Linux without X11)")
}
