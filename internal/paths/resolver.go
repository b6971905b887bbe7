package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/standard"
)

// Resolution failures.
var (
	ErrNoProjectRoot         = errors.New("no project root found")
	ErrUnsupportedOnPlatform = errors.New("scope not supported on this platform")
	ErrInvalidPackageName    = errors.New("package name must be a single path element")
)

// ProjectMarkers are the entries whose presence marks a project root.
var ProjectMarkers = []string{
	".git",
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"pom.xml",
	"go.mod",
	"setup.py",
}

// SystemDirEnv overrides the system root for every standard.
func SystemDirEnv() string { return branding.EnvVar("SYSTEM_DIR") }

// Resolver computes scope roots. The zero value is not usable; use New, or
// fill every field in tests.
type Resolver struct {
	LookupEnv func(key string) (string, bool)
	HomeDir   func() (string, error)
	WorkDir   func() (string, error)
	GOOS      string
}

// New returns a Resolver bound to the process environment.
func New() *Resolver {
	return &Resolver{
		LookupEnv: os.LookupEnv,
		HomeDir:   os.UserHomeDir,
		WorkDir:   os.Getwd,
		GOOS:      runtime.GOOS,
	}
}

func (r *Resolver) env(key string) string {
	if key == "" {
		return ""
	}
	v, _ := r.LookupEnv(key)
	return v
}

// UserRoot returns the user-level skills directory for a standard. A set
// override variable wins over $HOME/<user dir>.
func (r *Resolver) UserRoot(id standard.ID) (string, error) {
	rules, err := standard.RulesFor(id)
	if err != nil {
		return "", err
	}

	if v := r.env(rules.UserDirEnv); v != "" {
		if rules.UserDirEnvSuffix != "" {
			return filepath.Join(v, rules.UserDirEnvSuffix), nil
		}
		return v, nil
	}

	home, err := r.HomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, filepath.FromSlash(rules.UserDir)), nil
}

// FindProjectRoot walks upward from start (the working directory when
// empty) and returns the first directory holding a project marker. The
// filesystem root itself is never treated as a project.
func (r *Resolver) FindProjectRoot(start string) (string, bool) {
	if start == "" {
		wd, err := r.WorkDir()
		if err != nil {
			return "", false
		}
		start = wd
	}

	cur, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(cur); err == nil {
		cur = resolved
	}

	for {
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		if hasProjectMarker(cur) {
			return cur, true
		}
		cur = parent
	}
}

func hasProjectMarker(dir string) bool {
	for _, m := range ProjectMarkers {
		if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
			return true
		}
	}
	return false
}

// ProjectRoot returns the project-level skills directory for a standard, or
// false when no project root is found from the working directory.
func (r *Resolver) ProjectRoot(id standard.ID) (string, bool, error) {
	rules, err := standard.RulesFor(id)
	if err != nil {
		return "", false, err
	}
	root, ok := r.FindProjectRoot("")
	if !ok {
		return "", false, nil
	}
	return filepath.Join(root, filepath.FromSlash(rules.ProjectDir)), true, nil
}

// SystemRoot returns the system-wide skills directory for a standard.
func (r *Resolver) SystemRoot(id standard.ID) (string, error) {
	rules, err := standard.RulesFor(id)
	if err != nil {
		return "", err
	}

	if v := r.env(SystemDirEnv()); v != "" {
		return v, nil
	}

	dir := rules.SystemDir(r.GOOS)
	if dir == "" {
		return "", fmt.Errorf("%w: %s has no system directory on %s", ErrUnsupportedOnPlatform, rules.DisplayName, r.GOOS)
	}
	return filepath.FromSlash(dir), nil
}

// Root returns the scope root for a standard.
func (r *Resolver) Root(scope Scope, id standard.ID) (string, error) {
	switch scope.Canonical() {
	case User:
		return r.UserRoot(id)
	case Project:
		dir, ok, err := r.ProjectRoot(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w for %s scope (looked for %s)", ErrNoProjectRoot, scope, strings.Join(ProjectMarkers, ", "))
		}
		return dir, nil
	case System:
		return r.SystemRoot(id)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, string(scope))
	}
}

// Resolve returns the install location of a package: the scope root joined
// with the package name.
func (r *Resolver) Resolve(scope Scope, id standard.ID, packageName string) (string, error) {
	if err := checkPackageName(packageName); err != nil {
		return "", err
	}
	root, err := r.Root(scope, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, packageName), nil
}

func checkPackageName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPackageName, name)
	}
	return nil
}
