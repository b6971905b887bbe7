// Package conflict decides what happens to an existing install before a new
// one is written: leave it (skip), detach it for deletion (overwrite), or move
// it aside to a single ".backup" sibling. Every filesystem change is a rename,
// so an interrupted call leaves either the old tree or the fully transitioned
// one, and a failed write can be undone with Result.Restore.
package conflict

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to the target name to form the backup path.
const BackupSuffix = ".backup"

// Policy selects how an existing install is handled.
type Policy int

const (
	Overwrite Policy = iota
	Skip
	BackupThenOverwrite
)

func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	case BackupThenOverwrite:
		return "backup"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "overwrite", "skip" or "backup" into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "overwrite":
		return Overwrite, nil
	case "skip":
		return Skip, nil
	case "backup", "backup-then-overwrite":
		return BackupThenOverwrite, nil
	default:
		return 0, fmt.Errorf("unknown conflict policy %q (want overwrite, skip or backup)", s)
	}
}

// Action reports what Apply did.
type Action int

const (
	// Proceed means the target did not exist; nothing was touched.
	Proceed Action = iota
	// Skipped means the target exists and must not be written.
	Skipped
	// Cleared means the existing target was moved to Result.DetachedPath,
	// to be deleted by Finish or put back by Restore.
	Cleared
	// BackedUp means the existing target was moved to Result.BackupPath.
	BackedUp
)

func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case Skipped:
		return "skipped"
	case Cleared:
		return "cleared"
	case BackedUp:
		return "backed-up"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Result is the outcome of Apply.
type Result struct {
	Action       Action
	BackupPath   string
	DetachedPath string
}

// Finish deletes the tree an overwrite detached. It is a no-op for every
// other action.
func (r Result) Finish() error {
	if r.Action != Cleared || r.DetachedPath == "" {
		return nil
	}
	trash := filepath.Dir(r.DetachedPath)
	if err := os.RemoveAll(trash); err != nil {
		return fmt.Errorf("deleting detached tree %s: %w", trash, err)
	}
	return nil
}

// Restore moves the previous install back to target after the new one
// could not be written.
func (r Result) Restore(target string) error {
	switch r.Action {
	case Cleared:
		if err := os.Rename(r.DetachedPath, target); err != nil {
			return fmt.Errorf("restoring %s: %w", target, err)
		}
		_ = os.Remove(filepath.Dir(r.DetachedPath))
	case BackedUp:
		if err := os.Rename(r.BackupPath, target); err != nil {
			return fmt.Errorf("restoring %s from backup: %w", target, err)
		}
	}
	return nil
}

// BackupPath returns the backup location for target.
func BackupPath(target string) string {
	return filepath.Join(filepath.Dir(target), filepath.Base(target)+BackupSuffix)
}

// Exists reports whether target is present (a dangling symlink counts).
func Exists(target string) (bool, error) {
	if _, err := os.Lstat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", target, err)
	}
	return true, nil
}

// Apply prepares target for a new install according to policy. When Apply
// returns Skipped the caller must not write to target. After writing, the
// caller calls Finish on success or Restore on failure. The first failing
// step is returned immediately; no later step runs.
//
// Apply assumes no other process mutates target while it runs.
func Apply(target string, policy Policy) (Result, error) {
	exists, err := Exists(target)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{Action: Proceed}, nil
	}

	switch policy {
	case Skip:
		return Result{Action: Skipped}, nil

	case Overwrite:
		detached, err := detach(target)
		if err != nil {
			return Result{}, fmt.Errorf("removing existing install %s: %w", target, err)
		}
		return Result{Action: Cleared, DetachedPath: detached}, nil

	case BackupThenOverwrite:
		backup := BackupPath(target)
		// Only one backup is retained.
		if err := RemoveTree(backup); err != nil {
			return Result{}, fmt.Errorf("removing previous backup %s: %w", backup, err)
		}
		if err := os.Rename(target, backup); err != nil {
			return Result{}, fmt.Errorf("backing up %s: %w", target, err)
		}
		return Result{Action: BackedUp, BackupPath: backup}, nil

	default:
		return Result{}, fmt.Errorf("unknown conflict policy %v", policy)
	}
}

// RemoveTree deletes path. The tree is first renamed into a hidden sibling
// directory so that path disappears in one step; only then is the detached
// copy deleted. A missing path is not an error.
func RemoveTree(path string) error {
	exists, err := Exists(path)
	if err != nil || !exists {
		return err
	}

	detached, err := detach(path)
	if err != nil {
		return err
	}
	return Result{Action: Cleared, DetachedPath: detached}.Finish()
}

// detach renames path into a fresh hidden sibling directory and returns its
// new location.
func detach(path string) (string, error) {
	parent, base := filepath.Dir(path), filepath.Base(path)
	trash, err := os.MkdirTemp(parent, "."+base+".removing-")
	if err != nil {
		return "", fmt.Errorf("creating removal directory: %w", err)
	}
	moved := filepath.Join(trash, base)
	if err := os.Rename(path, moved); err != nil {
		_ = os.Remove(trash)
		return "", fmt.Errorf("detaching %s: %w", path, err)
	}
	return moved, nil
}
