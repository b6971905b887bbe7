package discovery

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentx-labs/skillkit/internal/paths"
)

// Query narrows a scan result. Zero fields match everything.
type Query struct {
	Search string
	Scope  paths.Scope
}

// Filter returns the skills matching q, in their original order. Scope is
// compared exactly. Search is a case-insensitive substring match against
// name, description and author, each only when present.
func Filter(skills []Skill, q Query) []Skill {
	fold := cases.Fold()
	needle := fold.String(q.Search)

	var out []Skill
	for _, s := range skills {
		if q.Scope != "" && s.Scope != q.Scope {
			continue
		}
		if needle != "" && !matches(fold, needle, s.Name, s.Description, s.Author) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matches(fold cases.Caser, needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

// Group is the skills of one scope.
type Group struct {
	Scope  paths.Scope
	Skills []Skill
}

// GroupByScope groups skills in the order project, workspace, user,
// system, custom. Empty groups are omitted.
func GroupByScope(skills []Skill) []Group {
	byScope := make(map[paths.Scope][]Skill)
	for _, s := range skills {
		byScope[s.Scope] = append(byScope[s.Scope], s)
	}

	var groups []Group
	for _, scope := range scopeOrder {
		if list := byScope[scope]; len(list) > 0 {
			groups = append(groups, Group{Scope: scope, Skills: list})
		}
	}
	return groups
}

// Find returns the first skill whose name or directory is name.
func Find(skills []Skill, name string) (Skill, bool) {
	for _, s := range skills {
		if s.Name == name || s.DirName == name {
			return s, true
		}
	}
	return Skill{}, false
}

// Summary counts skills by health.
type Summary struct {
	Total        int `json:"total"`
	Correct      int `json:"correct"`
	WithWarnings int `json:"with_warnings"`
	Invalid      int `json:"invalid"`
}

// Summarize counts the skills that are clean, valid with warnings, and
// invalid.
func Summarize(skills []Skill) Summary {
	sum := Summary{Total: len(skills)}
	for _, s := range skills {
		switch {
		case !s.Valid:
			sum.Invalid++
		case len(s.Warnings) > 0:
			sum.WithWarnings++
		default:
			sum.Correct++
		}
	}
	return sum
}
