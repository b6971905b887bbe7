package paths

import (
	"errors"
	"fmt"
	"strings"
)

// Scope is an installation level.
type Scope string

const (
	User      Scope = "user"
	Project   Scope = "project"
	Workspace Scope = "workspace"
	System    Scope = "system"
)

// ErrUnknownScope is returned by ParseScope for values outside the set.
var ErrUnknownScope = errors.New("unknown scope")

// Scopes returns every scope in display order.
func Scopes() []Scope {
	return []Scope{User, Project, Workspace, System}
}

// ParseScope converts user input into a Scope.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case User, Project, Workspace, System:
		return sc, nil
	default:
		return "", fmt.Errorf("%w: %q (want user, project, workspace or system)", ErrUnknownScope, s)
	}
}

// Canonical maps a scope to the scope whose directory it uses.
//
// Workspace is an alias for Project until workspaces get their own root;
// this is the only place that alias is expressed.
func (s Scope) Canonical() Scope {
	if s == Workspace {
		return Project
	}
	return s
}

func (s Scope) String() string { return string(s) }
