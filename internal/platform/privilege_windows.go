//go:build windows

package platform

import "golang.org/x/sys/windows"

// IsElevated reports whether the process token is elevated (run as administrator).
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// Writable returns nil when the current user may create entries in dir.
// Windows ACLs are not reflected in mode bits, so this probes with a file.
func Writable(dir string) error {
	return probeWrite(dir)
}
