//go:build unix

package platform

import "golang.org/x/sys/unix"

// IsElevated reports whether the process runs as root.
func IsElevated() bool {
	return unix.Geteuid() == 0
}

// Writable returns nil when the current user may create entries in dir.
func Writable(dir string) error {
	return unix.Access(dir, unix.W_OK)
}
