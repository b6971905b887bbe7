//go:build !unix && !windows

package platform

// IsElevated is always false where privilege has no meaning.
func IsElevated() bool { return false }

// Writable returns nil when the current user may create entries in dir.
func Writable(dir string) error {
	return probeWrite(dir)
}
