package installer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceNotFound        = errors.New("source package not found")
	ErrVcsUnavailable        = errors.New("git is required but not found in PATH")
	ErrValidationFailed      = errors.New("package validation failed")
	ErrInsufficientPrivilege = errors.New("system scope requires elevated privileges")
)

// CloneError reports a non-zero exit from the version-control client.
type CloneError struct {
	URL    string
	Stderr string
	Err    error
}

func (e *CloneError) Error() string {
	msg := fmt.Sprintf("cloning %s: %v", e.URL, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *CloneError) Unwrap() error { return e.Err }

// NoWriteAccessError names the nearest existing ancestor of an install
// target that the current user cannot write to.
type NoWriteAccessError struct {
	Path string
	Err  error
}

func (e *NoWriteAccessError) Error() string {
	return fmt.Sprintf("no write access to %s: %v", e.Path, e.Err)
}

func (e *NoWriteAccessError) Unwrap() error { return e.Err }

// InstallError wraps a filesystem failure during an install step.
type InstallError struct {
	Op   string
	Path string
	Err  error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install failed: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

func validationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}
