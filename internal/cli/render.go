package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agentx-labs/skillkit/internal/discovery"
	"github.com/agentx-labs/skillkit/internal/manifest"
)

const (
	listDescWidth  = 60
	tableDescWidth = 40
)

var scopeTitles = map[string]string{
	"project":   "Project",
	"workspace": "Workspace",
	"user":      "User",
	"system":    "System",
	"custom":    "Custom",
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func sortedByName(skills []discovery.Skill) []discovery.Skill {
	out := append([]discovery.Skill(nil), skills...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func printList(w io.Writer, skills []discovery.Skill, grouped bool) error {
	if len(skills) == 0 {
		_, err := fmt.Fprintln(w, "No skills found.")
		return err
	}

	fmt.Fprintf(w, "Installed skills (%d)\n", len(skills))

	if !grouped {
		for i, s := range sortedByName(skills) {
			fmt.Fprintf(w, "\n%d. %s\n", i+1, s.Name)
			fmt.Fprintf(w, "   Description: %s\n", s.Description)
			fmt.Fprintf(w, "   Scope: %s\n", s.Label)
			fmt.Fprintf(w, "   Path: %s\n", s.Path)
		}
		return nil
	}

	for _, g := range discovery.GroupByScope(skills) {
		list := sortedByName(g.Skills)
		fmt.Fprintf(w, "\n[%s] (%s)\n", scopeTitles[string(g.Scope)], list[0].RootPath)
		for i, s := range list {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s.Name)
			if s.Valid {
				fmt.Fprintf(w, "     Description: %s\n", truncate(s.Description, listDescWidth))
				if s.Version != "" {
					fmt.Fprintf(w, "     Version: %s\n", s.Version)
				}
			} else {
				fmt.Fprintf(w, "     Error: %s\n", strings.Join(s.Errors, ", "))
			}
			for _, warning := range s.Warnings {
				fmt.Fprintf(w, "     Warning: %s\n", warning)
			}
		}
	}
	return nil
}

func printTable(w io.Writer, skills []discovery.Skill) error {
	if len(skills) == 0 {
		_, err := fmt.Fprintln(w, "No skills found.")
		return err
	}

	sorted := append([]discovery.Skill(nil), skills...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Scope != sorted[j].Scope {
			return sorted[i].Scope < sorted[j].Scope
		}
		return sorted[i].Name < sorted[j].Name
	})

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION\tVERSION\tLOCATION")
	for _, s := range sorted {
		version := s.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, truncate(s.Description, tableDescWidth), version, s.Label)
	}
	return tw.Flush()
}

// listJSON is the document written by "list --format json".
type listJSON struct {
	TotalCount int               `json:"total_count"`
	Timestamp  string            `json:"timestamp"`
	Skills     []discovery.Skill `json:"skills"`
}

func printJSON(w io.Writer, skills []discovery.Skill, now time.Time) error {
	if skills == nil {
		skills = []discovery.Skill{}
	}
	data, err := json.MarshalIndent(listJSON{
		TotalCount: len(skills),
		Timestamp:  now.Format(time.RFC3339),
		Skills:     skills,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling skills: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printDetail(w io.Writer, s discovery.Skill) error {
	fmt.Fprintf(w, "Name:        %s\n", s.Name)
	fmt.Fprintf(w, "Description: %s\n", s.Description)
	fmt.Fprintf(w, "Path:        %s\n", s.Path)
	fmt.Fprintf(w, "Location:    %s\n", s.Label)
	for _, f := range []struct{ label, value string }{
		{"Version:     ", s.Version},
		{"Author:      ", s.Author},
		{"License:     ", s.License},
		{"Compatible:  ", s.Compatibility},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "%s%s\n", f.label, f.value)
		}
	}

	fmt.Fprintln(w, "\nContents:")
	fmt.Fprintf(w, "  %s\n", manifest.FileName)
	for _, d := range []struct {
		name    string
		present bool
	}{
		{manifest.ScriptsDir, s.HasScripts},
		{manifest.ReferencesDir, s.HasReferences},
		{manifest.AssetsDir, s.HasAssets},
	} {
		if d.present {
			fmt.Fprintf(w, "  %s/ (%d files)\n", d.name, countEntries(filepath.Join(s.Path, d.name)))
		}
	}

	if len(s.Metadata) > 0 {
		fmt.Fprintln(w, "\nMetadata:")
		for _, e := range s.Metadata {
			fmt.Fprintf(w, "  %s: %s\n", e.Key, e.Value)
		}
	}
	if len(s.AllowedTools) > 0 {
		fmt.Fprintln(w, "\nAllowed tools:")
		for _, t := range s.AllowedTools {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
	printIssues(w, "Errors", s.Errors)
	printIssues(w, "Warnings", s.Warnings)

	if s.Body != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", strings.Repeat("=", 60), strings.TrimRight(s.Body, "\n"))
	}
	return nil
}

func printIssues(w io.Writer, title string, issues []string) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, issue := range issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}

func printCheck(w io.Writer, skills []discovery.Skill) error {
	for _, s := range sortedByName(skills) {
		switch {
		case !s.Valid:
			fmt.Fprintf(w, "[FAIL] %s\n", s.Name)
			for _, e := range s.Errors {
				fmt.Fprintf(w, "       - %s\n", e)
			}
		case len(s.Warnings) > 0:
			fmt.Fprintf(w, "[WARN] %s\n", s.Name)
			for _, warning := range s.Warnings {
				fmt.Fprintf(w, "       - %s\n", warning)
			}
		default:
			fmt.Fprintf(w, "[ OK ] %s\n", s.Name)
		}
	}

	sum := discovery.Summarize(skills)
	_, err := fmt.Fprintf(w, "\n%d skills: %d ok, %d with warnings, %d with errors\n",
		sum.Total, sum.Correct, sum.WithWarnings, sum.Invalid)
	return err
}
