//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/paths"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // $HOME
	UserDirs   string // parent of the per-standard user overrides
	SystemDir  string // AGENT_SKILLS_SYSTEM_DIR
	ProjectDir string // a directory with a go.mod marker
	SourceDir  string // where test packages are authored
}

// setupTestEnv creates isolated temp directories and sets environment
// variables so every root resolves inside them. The env vars are restored
// after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		UserDirs:   t.TempDir(),
		SystemDir:  filepath.Join(t.TempDir(), "system-skills"),
		ProjectDir: t.TempDir(),
		SourceDir:  t.TempDir(),
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	t.Setenv("AGENT_SKILLS_USER_DIR", filepath.Join(env.UserDirs, "agent-skills"))
	t.Setenv("CLAUDE_SKILLS_DIR", filepath.Join(env.UserDirs, "claude"))
	t.Setenv("CODEX_HOME", filepath.Join(env.UserDirs, "codex"))
	t.Setenv(paths.SystemDirEnv(), env.SystemDir)
	t.Setenv("AGENT_SKILLS_CONFIG", filepath.Join(env.HomeDir, "config.yaml"))

	writeFile(t, filepath.Join(env.ProjectDir, "go.mod"), "module example.com/project\n")
	resolved, err := filepath.EvalSymlinks(env.ProjectDir)
	if err != nil {
		t.Fatalf("resolving project dir: %v", err)
	}
	env.ProjectDir = resolved

	return env
}

// writeSkill authors a package <SourceDir>/<dir> declaring name.
func writeSkill(t *testing.T, env *testEnv, dir, name, description string) string {
	t.Helper()
	pkg := filepath.Join(env.SourceDir, dir)
	writeFile(t, filepath.Join(pkg, manifest.FileName), "---\nname: "+name+"\ndescription: "+description+
		"\nmetadata:\n  version: 1.0.0\n---\n# "+name+"\n")
	writeFile(t, filepath.Join(pkg, "scripts", "run.sh"), "#!/bin/sh\necho ok\n")
	writeFile(t, filepath.Join(pkg, "references", "guide.md"), "# Guide\n")
	return pkg
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertNotExists fails the test if the path exists.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s NOT to exist", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// dirNames lists the entries of dir.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
