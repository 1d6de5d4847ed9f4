//go:build windows

package blocker

import "golang.org/x/sys/windows"

// isElevated reports whether the process token is elevated.
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
