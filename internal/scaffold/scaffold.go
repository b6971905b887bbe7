package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentx-labs/skillkit/internal/manifest"
	"github.com/agentx-labs/skillkit/internal/standard"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Options describe the package to create.
type Options struct {
	Name          string
	Description   string
	License       string
	Compatibility string
	Metadata      manifest.Metadata
	AllowedTools  []string

	Scripts    bool
	References bool
	Assets     bool

	Rules standard.Rules
}

// Result lists what Create wrote, relative to Dir.
type Result struct {
	Dir   string
	Files []string
}

// frontmatter fixes the key order of a generated header.
type frontmatter struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	License       string            `yaml:"license,omitempty"`
	Compatibility string            `yaml:"compatibility,omitempty"`
	Metadata      manifest.Metadata `yaml:"metadata,omitempty"`
	AllowedTools  string            `yaml:"allowed-tools,omitempty"`
}

var folderPurpose = map[string]string{
	manifest.ScriptsDir:    "Executable helpers",
	manifest.ReferencesDir: "Reference documents",
	manifest.AssetsDir:     "Static assets",
}

// Create writes a new package named opts.Name under base. The name and
// description are checked against opts.Rules first, and an existing
// directory is never overwritten.
func Create(base string, opts Options) (*Result, error) {
	if err := manifest.ValidateName(opts.Name, opts.Rules); err != nil {
		return nil, fmt.Errorf("invalid name %q: %w", opts.Name, err)
	}
	if err := manifest.ValidateDescription(opts.Description, opts.Rules); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}

	dir := filepath.Join(base, opts.Name)
	if _, err := os.Lstat(dir); err == nil {
		return nil, fmt.Errorf("%s already exists; choose another name or remove it first", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating package directory: %w", err)
	}

	result := &Result{Dir: dir}

	content, err := renderManifest(opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), content, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", manifest.FileName, err)
	}
	result.Files = append(result.Files, manifest.FileName)

	for _, folder := range []struct {
		name string
		want bool
	}{
		{manifest.ScriptsDir, opts.Scripts},
		{manifest.ReferencesDir, opts.References},
		{manifest.AssetsDir, opts.Assets},
	} {
		if !folder.want {
			continue
		}
		rel, err := writeFolder(dir, folder.name, opts.Name)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, rel)
	}

	// The generated package must pass the same checks as an install.
	if _, err := manifest.ValidatePackage(dir, opts.Rules); err != nil {
		return nil, fmt.Errorf("generated package is invalid: %w", err)
	}

	return result, nil
}

func renderManifest(opts Options) ([]byte, error) {
	header, err := yaml.Marshal(frontmatter{
		Name:          opts.Name,
		Description:   opts.Description,
		License:       opts.License,
		Compatibility: opts.Compatibility,
		Metadata:      opts.Metadata,
		AllowedTools:  strings.Join(opts.AllowedTools, " "),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	data := struct{ Title, Description string }{Title(opts.Name), opts.Description}
	if err := templates.ExecuteTemplate(&buf, "SKILL.md.tmpl", data); err != nil {
		return nil, fmt.Errorf("executing template SKILL.md.tmpl: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFolder(dir, folder, name string) (string, error) {
	if err := os.MkdirAll(filepath.Join(dir, folder), 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", folder, err)
	}

	var buf bytes.Buffer
	data := struct{ Dir, Purpose, Name string }{folder, folderPurpose[folder], name}
	if err := templates.ExecuteTemplate(&buf, "README.md.tmpl", data); err != nil {
		return "", fmt.Errorf("executing template README.md.tmpl: %w", err)
	}

	rel := filepath.Join(folder, "README.md")
	if err := os.WriteFile(filepath.Join(dir, rel), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", rel, err)
	}
	return rel, nil
}

// Title turns a package name into a heading: "pdf-tools" becomes "Pdf Tools".
func Title(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}
