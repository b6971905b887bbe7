package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Cloner materializes a remote repository into a directory that does not
// yet exist.
type Cloner interface {
	// Available returns ErrVcsUnavailable when the client cannot be invoked.
	Available() error
	Clone(ctx context.Context, url, dir string) error
}

// GitCloner shells out to the git client for a shallow clone.
type GitCloner struct {
	// Binary defaults to "git" resolved on PATH.
	Binary string
}

func (g GitCloner) binary() string {
	if g.Binary == "" {
		return "git"
	}
	return g.Binary
}

func (g GitCloner) Available() error {
	if _, err := exec.LookPath(g.binary()); err != nil {
		return fmt.Errorf("%w: %v", ErrVcsUnavailable, err)
	}
	return nil
}

func (g GitCloner) Clone(ctx context.Context, url, dir string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.binary(), "clone", "--depth=1", "--quiet", url, dir)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrVcsUnavailable, err)
		}
		return &CloneError{URL: url, Stderr: stderr.String(), Err: err}
	}
	return nil
}
