package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/agentx-labs/skillkit/internal/conflict"
	"github.com/agentx-labs/skillkit/internal/installer"
	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
)

func writeManifest(t testing.TB, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(content), 0644))
}

func skillText(name, description string) string {
	return "---\nname: " + name + "\ndescription: " + description + "\n---\n"
}

// fakeResolver resolves home and the working directory to temp dirs.
func fakeResolver(t *testing.T, env map[string]string) (*paths.Resolver, string, string) {
	t.Helper()
	home := t.TempDir()
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "go.mod"), []byte("module x\n"), 0644))
	project, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	return &paths.Resolver{
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		HomeDir: func() (string, error) { return home, nil },
		WorkDir: func() (string, error) { return project, nil },
		GOOS:    "linux",
	}, home, project
}

func TestEnumerateRoots(t *testing.T) {
	system := t.TempDir()
	r, home, project := fakeResolver(t, map[string]string{paths.SystemDirEnv(): system})

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".agent-skills"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".codex", "skills"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(project, ".claude", "skills"), 0755))

	roots, err := EnumerateRoots(r, standard.All(), paths.Scopes())
	require.NoError(t, err)

	var labels []string
	for _, root := range roots {
		labels = append(labels, root.Label)
	}
	// The system override is shared by every standard and listed once.
	assert.Equal(t, []string{
		"user-AgentSkills",
		"system-AgentSkills",
		"project-Claude",
		"user-Codex",
	}, labels)
	assert.Equal(t, filepath.Join(project, ".claude", "skills"), roots[2].Path)
}

func TestEnumerateRoots_SkipsUnsupportedSystem(t *testing.T) {
	r, _, _ := fakeResolver(t, nil)
	roots, err := EnumerateRoots(r, []standard.ID{standard.Claude}, []paths.Scope{paths.System})
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestEnumerateRoots_UnknownStandard(t *testing.T) {
	r, _, _ := fakeResolver(t, nil)
	_, err := EnumerateRoots(r, []standard.ID{"nope"}, paths.Scopes())
	assert.ErrorIs(t, err, standard.ErrUnknownStandard)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "my-tool"), skillText("my-tool", "A tool"))
	writeManifest(t, filepath.Join(dir, "mytool"), skillText("my-tool", "Mismatched"))
	writeManifest(t, filepath.Join(dir, "broken"), "no frontmatter here\n")
	writeManifest(t, filepath.Join(dir, ".hidden"), skillText("hidden", "Hidden"))
	writeManifest(t, filepath.Join(dir, "my-tool"+conflict.BackupSuffix), skillText("my-tool", "Backup"))
	writeManifest(t, filepath.Join(dir, "versioned"),
		"---\nname: versioned\ndescription: Has a version\nmetadata:\n  version: banana\n  author: Ada\n---\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "my-tool", "scripts"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))

	root := Root{Path: dir, Scope: paths.User, Standard: standard.AgentSkills, Label: "user-AgentSkills"}
	res := Scan([]Root{root, {Path: filepath.Join(dir, "missing"), Scope: paths.System, Label: "system-AgentSkills"}})

	require.Len(t, res.Warnings, 1, "missing root is a warning")
	require.Len(t, res.Skills, 4)

	byDir := make(map[string]Skill)
	for _, s := range res.Skills {
		byDir[s.DirName] = s
	}

	ok := byDir["my-tool"]
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Warnings)
	assert.True(t, ok.HasScripts)
	assert.Equal(t, "user-AgentSkills", ok.Label)

	mismatch := byDir["mytool"]
	assert.True(t, mismatch.Valid)
	require.Len(t, mismatch.Warnings, 1)
	assert.Contains(t, mismatch.Warnings[0], "does not match directory")

	broken := byDir["broken"]
	assert.False(t, broken.Valid)
	assert.ErrorIs(t, broken.Err, manifest.ErrMalformedHeader)
	assert.Equal(t, "broken", broken.Name)

	versioned := byDir["versioned"]
	assert.True(t, versioned.Valid)
	assert.Equal(t, "Ada", versioned.Author)
	require.Len(t, versioned.Warnings, 1)
	assert.Contains(t, versioned.Warnings[0], "semantic version")
}

func TestScan_JSONShape(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "my-tool"), skillText("my-tool", "A tool"))
	res := Scan([]Root{{Path: dir, Scope: paths.User, Standard: standard.AgentSkills}})
	require.Len(t, res.Skills, 1)

	data, err := json.Marshal(res.Skills[0])
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["is_valid"])
	assert.Equal(t, map[string]interface{}{}, decoded["metadata"])
	assert.Equal(t, []interface{}{}, decoded["errors"])
	assert.NotContains(t, decoded, "Body")
}

func TestFilter(t *testing.T) {
	skills := []Skill{
		{Name: "pdf-tools", Description: "Work with PDF files", Scope: paths.User},
		{Name: "git-helper", Description: "Commit helpers", Author: "Ünal", Scope: paths.Project},
		{Name: "notes", Scope: paths.System},
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query", Query{}, []string{"pdf-tools", "git-helper", "notes"}},
		{"name", Query{Search: "PDF"}, []string{"pdf-tools"}},
		{"description", Query{Search: "commit"}, []string{"git-helper"}},
		{"author folded", Query{Search: "ÜNAL"}, []string{"git-helper"}},
		{"scope exact", Query{Scope: paths.Project}, []string{"git-helper"}},
		{"workspace is not project", Query{Scope: paths.Workspace}, nil},
		{"scope and search", Query{Scope: paths.User, Search: "commit"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range Filter(skills, tt.q) {
				got = append(got, s.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupByScope(t *testing.T) {
	skills := []Skill{
		{Name: "a", Scope: paths.System},
		{Name: "b", Scope: paths.User},
		{Name: "c", Scope: Custom},
		{Name: "d", Scope: paths.Project},
		{Name: "e", Scope: paths.User},
	}
	groups := GroupByScope(skills)
	require.Len(t, groups, 4)
	assert.Equal(t, paths.Project, groups[0].Scope)
	assert.Equal(t, paths.User, groups[1].Scope)
	assert.Len(t, groups[1].Skills, 2)
	assert.Equal(t, paths.System, groups[2].Scope)
	assert.Equal(t, Custom, groups[3].Scope)
}

func TestFindAndSummarize(t *testing.T) {
	skills := []Skill{
		{Name: "my-tool", DirName: "mytool", Valid: true, Warnings: []string{"mismatch"}},
		{Name: "ok", DirName: "ok", Valid: true},
		{Name: "broken", DirName: "broken"},
	}
	s, found := Find(skills, "mytool")
	require.True(t, found)
	assert.Equal(t, "my-tool", s.Name)
	_, found = Find(skills, "absent")
	assert.False(t, found)

	assert.Equal(t, Summary{Total: 3, Correct: 1, WithWarnings: 1, Invalid: 1}, Summarize(skills))
}

func TestScan_BackupSuffixWithoutSibling(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.backup")
	writeManifest(t, src, skillText("notes.backup", "Plain notes"))
	root := t.TempDir()

	codex := standard.MustRules(standard.Codex)
	out, err := installer.New(nil).InstallFromLocal(src, filepath.Join(root, "notes.backup"), codex, conflict.Overwrite)
	require.NoError(t, err)
	require.Equal(t, installer.Installed, out.Status)

	res := Scan([]Root{{Path: root, Scope: paths.User, Standard: standard.Codex, Label: "user-Codex"}})
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "notes.backup", res.Skills[0].Name)
	assert.True(t, res.Skills[0].Valid)
	assert.Empty(t, res.Skills[0].Warnings)

	// Once "notes" exists beside it, the directory reads as that install's backup.
	writeManifest(t, filepath.Join(root, "notes"), skillText("notes", "Notes"))
	res = Scan([]Root{{Path: root, Scope: paths.User, Standard: standard.Codex, Label: "user-Codex"}})
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "notes", res.Skills[0].Name)
}

// Installing a valid package into an empty root and scanning that root
// yields exactly the installed package.
func TestInstallThenScan(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := "skill-" + rapid.StringMatching(`[a-z0-9]{1,12}(-[a-z0-9]{1,8}){0,2}`).Draw(rt, "name")
		description := "Tool " + rapid.StringMatching(`[A-Za-z0-9 ]{0,40}[a-z]`).Draw(rt, "description")

		src := filepath.Join(t.TempDir(), name)
		writeManifest(t, src, skillText(name, description))
		root := t.TempDir()

		_, err := installer.New(nil).InstallFromLocal(src, filepath.Join(root, name), standard.MustRules(standard.AgentSkills), conflict.Overwrite)
		if err != nil {
			rt.Fatalf("install: %v", err)
		}

		res := Scan([]Root{{Path: root, Scope: paths.User, Standard: standard.AgentSkills}})
		if len(res.Skills) != 1 {
			rt.Fatalf("scan found %d skills, want 1", len(res.Skills))
		}
		got := res.Skills[0]
		if got.Name != name || got.Description != description || !got.Valid || len(got.Warnings) != 0 {
			rt.Fatalf("scanned %+v, want name %q description %q", got, name, description)
		}
	})
}
