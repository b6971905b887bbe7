package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/standard"
)

func TestCreate(t *testing.T) {
	base := t.TempDir()
	opts := Options{
		Name:          "pdf-tools",
		Description:   "Work with PDF files: split, merge and extract text",
		License:       "MIT",
		Compatibility: "claude, codex",
		Metadata: manifest.Metadata{
			{Key: "version", Value: "0.1.0"},
			{Key: "author", Value: "Ada"},
		},
		AllowedTools: []string{"Bash", "Read"},
		Scripts:      true,
		Assets:       true,
		Rules:        standard.MustRules(standard.AgentSkills),
	}

	result, err := Create(base, opts)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	want := []string{"SKILL.md", filepath.Join("scripts", "README.md"), filepath.Join("assets", "README.md")}
	if strings.Join(result.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files = %v, want %v", result.Files, want)
	}
	if _, err := os.Stat(filepath.Join(base, "pdf-tools", "references")); !os.IsNotExist(err) {
		t.Error("references/ should not be created")
	}

	rec, err := manifest.ParseDir(result.Dir)
	if err != nil {
		t.Fatalf("ParseDir() error: %v", err)
	}
	if rec.Name != opts.Name || rec.Description != opts.Description {
		t.Errorf("record = %q/%q", rec.Name, rec.Description)
	}
	if rec.License != "MIT" || rec.Version() != "0.1.0" || rec.Author() != "Ada" {
		t.Errorf("optional fields not round-tripped: %+v", rec)
	}
	if strings.Join(rec.AllowedTools, " ") != "Bash Read" {
		t.Errorf("AllowedTools = %v", rec.AllowedTools)
	}
	if !strings.Contains(rec.Body, "# Pdf Tools") {
		t.Errorf("body missing title heading: %q", rec.Body)
	}

	data, err := os.ReadFile(filepath.Join(result.Dir, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "---\nname: pdf-tools\ndescription: ") {
		t.Errorf("frontmatter order wrong:\n%s", data)
	}
}

func TestCreate_MinimalOmitsOptionalKeys(t *testing.T) {
	result, err := Create(t.TempDir(), Options{
		Name:        "notes",
		Description: "Keep notes",
		Rules:       standard.MustRules(standard.Claude),
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(result.Dir, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"license:", "metadata:", "allowed-tools:", "compatibility:"} {
		if strings.Contains(string(data), key) {
			t.Errorf("unexpected %s in\n%s", key, data)
		}
	}
}

func TestCreate_Rejects(t *testing.T) {
	rules := standard.MustRules(standard.AgentSkills)
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "taken"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"bad name", Options{Name: "My--Tool", Description: "x", Rules: rules}, "invalid name"},
		{"empty description", Options{Name: "ok", Rules: rules}, "invalid description"},
		{"existing directory", Options{Name: "taken", Description: "x", Rules: rules}, "already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(base, tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Create() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"pdf-tools": "Pdf Tools",
		"notes":     "Notes",
		"a-b-c":     "A B C",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
