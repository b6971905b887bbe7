package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
)

// Skill is one package found during a scan. A package whose manifest
// cannot be parsed is still returned, with Valid false and the parse
// error in Errors.
type Skill struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	License       string            `json:"license,omitempty"`
	Compatibility string            `json:"compatibility,omitempty"`
	Version       string            `json:"version,omitempty"`
	Author        string            `json:"author,omitempty"`
	AllowedTools  []string          `json:"allowed_tools"`
	Metadata      manifest.Metadata `json:"metadata"`

	Path     string      `json:"path"`
	DirName  string      `json:"directory"`
	Scope    paths.Scope `json:"scope"`
	Standard standard.ID `json:"standard"`
	Label    string      `json:"location"`
	RootPath string      `json:"root"`

	HasScripts    bool `json:"has_scripts"`
	HasReferences bool `json:"has_references"`
	HasAssets     bool `json:"has_assets"`

	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	Body string `json:"-"`
	Err  error  `json:"-"`
}

// Result holds the packages found and one warning per root that could not
// be read.
type Result struct {
	Skills   []Skill
	Warnings []string
}

// Scan lists the immediate subdirectories of every root and parses their
// manifests. Hidden directories and conflict backups are ignored. A
// "<x>.backup" directory counts as a backup only while "<x>" exists beside
// it; otherwise it is an ordinary package.
func Scan(roots []Root) Result {
	var res Result
	for _, root := range roots {
		entries, err := os.ReadDir(root.Path)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping %s (%s): %v", root.Path, root.Label, err))
			continue
		}
		rules, rerr := standard.RulesFor(root.Standard)
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || isBackup(root.Path, name) {
				continue
			}
			dir := filepath.Join(root.Path, name)
			if !isDir(dir) {
				continue
			}
			s := inspect(dir, root)
			if s.Valid && rerr == nil {
				s.Warnings = append(s.Warnings, ruleWarnings(&s, rules)...)
			}
			res.Skills = append(res.Skills, s)
		}
	}
	return res
}

// isBackup reports whether name in dir is the backup of a sibling install.
func isBackup(dir, name string) bool {
	orig := strings.TrimSuffix(name, conflict.BackupSuffix)
	if orig == name || orig == "" {
		return false
	}
	return isDir(filepath.Join(dir, orig))
}

// inspect parses one package directory.
func inspect(dir string, root Root) Skill {
	s := Skill{
		Name:          filepath.Base(dir),
		Path:          dir,
		DirName:       filepath.Base(dir),
		Scope:         root.Scope,
		Standard:      root.Standard,
		Label:         root.Label,
		RootPath:      root.Path,
		HasScripts:    isDir(filepath.Join(dir, manifest.ScriptsDir)),
		HasReferences: isDir(filepath.Join(dir, manifest.ReferencesDir)),
		HasAssets:     isDir(filepath.Join(dir, manifest.AssetsDir)),
		AllowedTools:  []string{},
		Metadata:      manifest.Metadata{},
		Errors:        []string{},
		Warnings:      []string{},
	}

	rec, err := manifest.ParseDir(dir)
	if err != nil {
		s.Err = err
		s.Errors = append(s.Errors, err.Error())
		return s
	}

	s.Valid = true
	s.Name = rec.Name
	s.Description = rec.Description
	s.License = rec.License
	s.Compatibility = rec.Compatibility
	s.Version = rec.Version()
	s.Author = rec.Author()
	s.AllowedTools = rec.AllowedTools
	s.Metadata = rec.Metadata
	s.Body = rec.Body
	return s
}

// ruleWarnings reports problems that do not make a package unreadable.
func ruleWarnings(s *Skill, rules standard.Rules) []string {
	var warnings []string
	if s.Name != s.DirName {
		warnings = append(warnings, fmt.Sprintf("name %q does not match directory %q", s.Name, s.DirName))
	}
	if err := manifest.ValidateName(s.Name, rules); err != nil {
		warnings = append(warnings, fmt.Sprintf("name: %v", err))
	}
	if err := manifest.ValidateDescription(s.Description, rules); err != nil {
		warnings = append(warnings, fmt.Sprintf("description: %v", err))
	}
	if s.Version != "" {
		if _, err := semver.NewVersion(s.Version); err != nil {
			warnings = append(warnings, fmt.Sprintf("metadata.version %q is not a semantic version", s.Version))
		}
	}
	return warnings
}
