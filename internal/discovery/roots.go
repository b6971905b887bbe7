// Package discovery finds installed skill packages by re-scanning the scope
// roots of one or more standards. Nothing is cached; every call reads the
// filesystem.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
)

// Custom is the scope of roots given explicitly by the caller.
const Custom paths.Scope = "custom"

// scopeOrder is the presentation order of groups.
var scopeOrder = []paths.Scope{paths.Project, paths.Workspace, paths.User, paths.System, Custom}

// Root is a directory that holds installed packages.
type Root struct {
	Path     string
	Scope    paths.Scope
	Standard standard.ID
	Label    string
}

// Label formats the "{scope}-{standard}" tag of a root.
func Label(scope paths.Scope, id standard.ID) string {
	rules, err := standard.RulesFor(id)
	if err != nil {
		return string(scope) + "-" + string(id)
	}
	return string(scope) + "-" + rules.Name
}

// EnumerateRoots returns the existing roots for every standard and scope
// requested. Workspace is not listed separately because it resolves to the
// project root. Scopes a standard does not support on this platform, and a
// missing project root, are skipped silently.
func EnumerateRoots(r *paths.Resolver, ids []standard.ID, scopes []paths.Scope) ([]Root, error) {
	var roots []Root
	seen := make(map[string]bool)

	for _, id := range ids {
		if _, err := standard.RulesFor(id); err != nil {
			return nil, err
		}
		for _, scope := range scopes {
			if scope == paths.Workspace {
				continue
			}
			dir, ok, err := rootFor(r, scope, id)
			if err != nil {
				return nil, err
			}
			if !ok || seen[dir] || !isDir(dir) {
				continue
			}
			seen[dir] = true
			roots = append(roots, Root{Path: dir, Scope: scope, Standard: id, Label: Label(scope, id)})
		}
	}
	return roots, nil
}

func rootFor(r *paths.Resolver, scope paths.Scope, id standard.ID) (string, bool, error) {
	switch scope {
	case paths.User:
		dir, err := r.UserRoot(id)
		return dir, err == nil, err
	case paths.Project:
		return r.ProjectRoot(id)
	case paths.System:
		dir, err := r.SystemRoot(id)
		if errors.Is(err, paths.ErrUnsupportedOnPlatform) {
			return "", false, nil
		}
		return dir, err == nil, err
	default:
		return "", false, fmt.Errorf("%w: %q", paths.ErrUnknownScope, string(scope))
	}
}

// CustomRoot describes an explicit directory to scan under the rules of id.
func CustomRoot(dir string, id standard.ID) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, fmt.Errorf("resolving %s: %w", dir, err)
	}
	return Root{Path: abs, Scope: Custom, Standard: id, Label: string(Custom)}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
