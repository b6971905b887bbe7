package conflict

import (
	"os"
	"path/filepath"
	"testing"
)

// makeInstall creates <root>/my-tool/SKILL.md with content.
func makeInstall(t *testing.T, root, content string) string {
	t.Helper()
	target := filepath.Join(root, "my-tool")
	if err := os.MkdirAll(filepath.Join(target, "scripts"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "SKILL.md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return target
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	return string(data)
}

// entries returns the names in dir.
func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestApply_TargetAbsent(t *testing.T) {
	for _, p := range []Policy{Overwrite, Skip, BackupThenOverwrite} {
		res, err := Apply(filepath.Join(t.TempDir(), "missing"), p)
		if err != nil {
			t.Fatalf("Apply(%s) error: %v", p, err)
		}
		if res.Action != Proceed {
			t.Errorf("Apply(%s) action = %s, want proceed", p, res.Action)
		}
	}
}

func TestApply_Skip(t *testing.T) {
	root := t.TempDir()
	target := makeInstall(t, root, "old")

	res, err := Apply(target, Skip)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.Action != Skipped {
		t.Errorf("action = %s, want skipped", res.Action)
	}
	if got := readManifest(t, target); got != "old" {
		t.Errorf("target mutated: %q", got)
	}
	if names := entries(t, root); len(names) != 1 {
		t.Errorf("root entries = %v, want only my-tool", names)
	}
}

func TestApply_Overwrite(t *testing.T) {
	root := t.TempDir()
	target := makeInstall(t, root, "old")

	res, err := Apply(target, Overwrite)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.Action != Cleared {
		t.Errorf("action = %s, want cleared", res.Action)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("target still exists: %v", err)
	}
	if got := readManifest(t, res.DetachedPath); got != "old" {
		t.Errorf("detached content = %q, want %q", got, "old")
	}

	if err := res.Finish(); err != nil {
		t.Fatalf("Finish error: %v", err)
	}
	if names := entries(t, root); len(names) != 0 {
		t.Errorf("root entries = %v, want none (no leftover removal dirs)", names)
	}
}

func TestResult_Restore(t *testing.T) {
	for _, p := range []Policy{Overwrite, BackupThenOverwrite} {
		t.Run(p.String(), func(t *testing.T) {
			root := t.TempDir()
			target := makeInstall(t, root, "old")

			res, err := Apply(target, p)
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if err := res.Restore(target); err != nil {
				t.Fatalf("Restore error: %v", err)
			}
			if got := readManifest(t, target); got != "old" {
				t.Errorf("restored content = %q, want %q", got, "old")
			}
			if names := entries(t, root); len(names) != 1 || names[0] != "my-tool" {
				t.Errorf("root entries = %v, want only my-tool", names)
			}
		})
	}
}

func TestApply_BackupKeepsOneCopy(t *testing.T) {
	root := t.TempDir()

	// A stale backup from an earlier run must be replaced.
	stale := filepath.Join(root, "my-tool"+BackupSuffix)
	if err := os.MkdirAll(stale, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stale, "SKILL.md"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	target := makeInstall(t, root, "current")

	res, err := Apply(target, BackupThenOverwrite)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.Action != BackedUp {
		t.Fatalf("action = %s, want backed-up", res.Action)
	}
	if res.BackupPath != stale {
		t.Errorf("BackupPath = %q, want %q", res.BackupPath, stale)
	}
	if got := readManifest(t, res.BackupPath); got != "current" {
		t.Errorf("backup content = %q, want %q", got, "current")
	}
	if _, err := os.Stat(filepath.Join(res.BackupPath, "scripts")); err != nil {
		t.Errorf("backup lost subdirectory: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("target still exists after backup")
	}
	if names := entries(t, root); len(names) != 1 || names[0] != "my-tool"+BackupSuffix {
		t.Errorf("root entries = %v, want exactly one backup", names)
	}
}

func TestRemoveTree_Missing(t *testing.T) {
	if err := RemoveTree(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("RemoveTree(missing) = %v, want nil", err)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"overwrite", Overwrite},
		{"Skip", Skip},
		{"backup", BackupThenOverwrite},
		{"backup-then-overwrite", BackupThenOverwrite},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParsePolicy("merge"); err == nil {
		t.Error("ParsePolicy(merge) = nil error")
	}
}
