// Package platform wraps the OS-specific pieces of installing a skill
// package: permission bits (a no-op on Windows), detecting elevated
// privilege, and probing whether a directory is writable.
package platform
