// Package installer places validated skill packages into a scope root.
//
// Every install is staged: the package is copied or cloned into a hidden
// directory beside the target, validated there, has its script permissions
// fixed, and only then replaces the target through the conflict policy and
// a final rename. A failure at any step removes the staging directory and
// leaves the previous install as it was.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/standard"
)

// ScriptExtensions are made executable inside an installed scripts directory.
var ScriptExtensions = []string{".sh", ".bash", ".py"}

// Status is the terminal state of a successful install call.
type Status int

const (
	Installed Status = iota
	Skipped
)

func (s Status) String() string {
	if s == Skipped {
		return "skipped"
	}
	return "installed"
}

// Outcome describes a finished install.
type Outcome struct {
	Status     Status
	Path       string
	BackupPath string
	Record     *manifest.Record
}

// Engine runs installs. The zero value is not usable; call New.
type Engine struct {
	// Out receives progress lines. Nil discards them.
	Out io.Writer

	Cloner Cloner

	// SetScriptPermissions enables the chmod step for scripts.
	SetScriptPermissions bool

	GOOS       string
	IsElevated func() bool
	Writable   func(dir string) error

	rename func(oldpath, newpath string) error
}

// New returns an Engine backed by git and the host platform.
func New(out io.Writer) *Engine {
	return &Engine{
		Out:                  out,
		Cloner:               GitCloner{},
		SetScriptPermissions: true,
		GOOS:                 runtime.GOOS,
		IsElevated:           platform.IsElevated,
		Writable:             platform.Writable,
		rename:               os.Rename,
	}
}

func (e *Engine) printf(format string, args ...interface{}) {
	if e.Out == nil {
		return
	}
	fmt.Fprintf(e.Out, format, args...)
}

// InstallFromLocal installs the package in source at target. The package
// is validated against rules before anything is written.
func (e *Engine) InstallFromLocal(source, target string, rules standard.Rules, policy conflict.Policy) (*Outcome, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return nil, &InstallError{Op: "reading source", Path: source, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, source)
	}

	rec, err := validate(source, target, rules)
	if err != nil {
		return nil, err
	}

	if out, done, err := e.skipIfPresent(target, policy, rec); done || err != nil {
		return out, err
	}

	staging, staged, err := stage(target)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	if err := copyDir(source, staged); err != nil {
		return nil, &InstallError{Op: "copying", Path: source, Err: err}
	}

	return e.commit(staged, target, policy, rec)
}

// InstallFromRemote clones url and installs the result at target. A clone
// that fails validation is removed entirely.
func (e *Engine) InstallFromRemote(ctx context.Context, url, target string, rules standard.Rules, policy conflict.Policy) (*Outcome, error) {
	if err := e.Cloner.Available(); err != nil {
		return nil, err
	}

	if out, done, err := e.skipIfPresent(target, policy, nil); done || err != nil {
		return out, err
	}

	staging, staged, err := stage(target)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	e.printf("Cloning %s...\n", url)
	if err := e.Cloner.Clone(ctx, url, staged); err != nil {
		return nil, err
	}
	if err := os.RemoveAll(filepath.Join(staged, ".git")); err != nil {
		return nil, &InstallError{Op: "removing clone metadata", Path: staged, Err: err}
	}

	rec, err := validate(staged, target, rules)
	if err != nil {
		return nil, err
	}

	return e.commit(staged, target, policy, rec)
}

// CheckPermissions reports whether target could be written for scope
// without touching the filesystem.
func (e *Engine) CheckPermissions(target string, scope paths.Scope) error {
	if scope.Canonical() == paths.System && e.GOOS != "windows" && !e.IsElevated() {
		return ErrInsufficientPrivilege
	}

	dir := nearestExisting(filepath.Dir(filepath.Clean(target)))
	if err := e.Writable(dir); err != nil {
		return &NoWriteAccessError{Path: dir, Err: err}
	}
	return nil
}

// nearestExisting walks up from dir to the first path that exists.
func nearestExisting(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// validate applies the install-time checks to the package in dir. The
// target's final path element must equal the manifest name.
func validate(dir, target string, rules standard.Rules) (*manifest.Record, error) {
	rec, err := manifest.ValidatePackage(dir, rules)
	if err != nil {
		return nil, validationFailed(err)
	}
	if base := filepath.Base(target); base != rec.Name {
		return nil, validationFailed(&manifest.NameMismatchError{Dir: base, Name: rec.Name})
	}
	return rec, nil
}

// skipIfPresent short-circuits a Skip install onto an existing target.
func (e *Engine) skipIfPresent(target string, policy conflict.Policy, rec *manifest.Record) (*Outcome, bool, error) {
	if policy != conflict.Skip {
		return nil, false, nil
	}
	exists, err := conflict.Exists(target)
	if err != nil {
		return nil, false, &InstallError{Op: "checking", Path: target, Err: err}
	}
	if !exists {
		return nil, false, nil
	}
	e.printf("Skipped %s: already installed\n", target)
	return &Outcome{Status: Skipped, Path: target, Record: rec}, true, nil
}

// stage creates a hidden staging directory beside target and returns it
// together with the path the package should be written to inside it.
func stage(target string) (string, string, error) {
	parent, base := filepath.Dir(target), filepath.Base(target)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", "", &InstallError{Op: "creating", Path: parent, Err: err}
	}
	staging, err := os.MkdirTemp(parent, "."+base+".staging-")
	if err != nil {
		return "", "", &InstallError{Op: "creating staging directory in", Path: parent, Err: err}
	}
	return staging, filepath.Join(staging, base), nil
}

// commit moves a validated staged package into place.
func (e *Engine) commit(staged, target string, policy conflict.Policy, rec *manifest.Record) (*Outcome, error) {
	if e.SetScriptPermissions && e.GOOS != "windows" {
		if err := makeScriptsExecutable(staged); err != nil {
			return nil, &InstallError{Op: "setting script permissions in", Path: staged, Err: err}
		}
	}

	res, err := conflict.Apply(target, policy)
	if err != nil {
		return nil, &InstallError{Op: "preparing", Path: target, Err: err}
	}
	switch res.Action {
	case conflict.Skipped:
		e.printf("Skipped %s: already installed\n", target)
		return &Outcome{Status: Skipped, Path: target, Record: rec}, nil
	case conflict.BackedUp:
		e.printf("Backed up existing install to %s\n", res.BackupPath)
	case conflict.Cleared:
		e.printf("Replacing existing install at %s\n", target)
	}

	if err := e.rename(staged, target); err != nil {
		if rerr := res.Restore(target); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return nil, &InstallError{Op: "moving package into", Path: target, Err: err}
	}
	if err := res.Finish(); err != nil {
		e.printf("Warning: %v\n", err)
	}

	e.printf("Installed %s to %s\n", rec.Name, target)
	return &Outcome{Status: Installed, Path: target, BackupPath: res.BackupPath, Record: rec}, nil
}

// makeScriptsExecutable adds execute bits to every script under dir/scripts.
func makeScriptsExecutable(dir string) error {
	scripts := filepath.Join(dir, manifest.ScriptsDir)
	if _, err := os.Stat(scripts); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(scripts, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !isScript(path) {
			return nil
		}
		return platform.MakeExecutable(path)
	})
}

func isScript(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range ScriptExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// NameFromURL derives a package directory name from a repository URL: the
// last path segment without a ".git" suffix.
func NameFromURL(url string) string {
	u := strings.TrimRight(url, "/")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	return strings.TrimSuffix(u, ".git")
}
