package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const delimiter = "---"

// requiredFields are checked in this order so the reported field is stable.
var requiredFields = []string{"name", "description"}

// ParseDir parses the SKILL.md at the root of a package directory.
func ParseDir(dir string) (*Record, error) {
	return ParseManifest(filepath.Join(dir, FileName))
}

// ParseManifest reads and parses a SKILL.md file. Optional fields that are
// absent come back as empty values, never nil collections.
func ParseManifest(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingManifest, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	rec, err := Parse(data)
	if err != nil {
		var hpe *HeaderParseError
		if errors.As(err, &hpe) && hpe.Path == "" {
			hpe.Path = path
		}
		return nil, err
	}
	rec.Path = path
	return rec, nil
}

// Parse parses manifest content.
func Parse(data []byte) (*Record, error) {
	header, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(header, &doc); err != nil {
		return nil, &HeaderParseError{Err: err}
	}

	fields, err := headerFields(&doc)
	if err != nil {
		return nil, err
	}
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			return nil, &MissingFieldError{Field: f}
		}
	}

	var raw interface{}
	if err := doc.Decode(&raw); err != nil {
		return nil, &HeaderParseError{Err: err}
	}
	issues, err := CheckSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("checking frontmatter: %w", err)
	}
	if len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			msgs = append(msgs, is.String())
		}
		return nil, &HeaderParseError{Issues: msgs}
	}

	rec := &Record{
		Name:          scalarValue(fields["name"]),
		Description:   scalarValue(fields["description"]),
		License:       scalarValue(fields["license"]),
		Compatibility: scalarValue(fields["compatibility"]),
		Metadata:      Metadata{},
		AllowedTools:  []string{},
		Body:          body,
	}

	if n, ok := fields["metadata"]; ok {
		md, err := metadataFromNode(n)
		if err != nil {
			return nil, err
		}
		rec.Metadata = md
	}
	if n, ok := fields["allowed-tools"]; ok {
		rec.AllowedTools = toolsFromNode(n)
	}

	return rec, nil
}

// splitFrontmatter separates the header block from the body. The first line
// must be the delimiter and a later line must close it.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	first, rest, found := bytes.Cut(data, []byte("\n"))
	if !isDelimiter(first) || !found {
		return nil, "", ErrMalformedHeader
	}

	offset := 0
	for {
		line, next, more := bytes.Cut(rest[offset:], []byte("\n"))
		if isDelimiter(line) {
			body := ""
			if more {
				body = string(next)
			}
			return rest[:offset], body, nil
		}
		if !more {
			return nil, "", ErrMalformedHeader
		}
		offset += len(line) + 1
	}
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == delimiter
}

// headerFields indexes the top-level mapping by key, rejecting duplicates.
func headerFields(doc *yaml.Node) (map[string]*yaml.Node, error) {
	fields := make(map[string]*yaml.Node)

	root := doc
	if root.Kind == 0 {
		return fields, nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return fields, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &HeaderParseError{Issues: []string{"frontmatter must be a key-value mapping"}}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		if _, dup := fields[key]; dup {
			return nil, &HeaderParseError{Issues: []string{fmt.Sprintf("duplicate key %q", key)}}
		}
		fields[key] = root.Content[i+1]
	}
	return fields, nil
}

func metadataFromNode(n *yaml.Node) (Metadata, error) {
	n = deref(n)
	md := Metadata{}
	if n == nil || n.Kind != yaml.MappingNode {
		return md, nil
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if seen[key] {
			return nil, &HeaderParseError{Issues: []string{fmt.Sprintf("duplicate metadata key %q", key)}}
		}
		seen[key] = true
		md = append(md, MetadataEntry{Key: key, Value: scalarValue(n.Content[i+1])})
	}
	return md, nil
}

// toolsFromNode accepts the space-joined form and, leniently, a YAML list.
func toolsFromNode(n *yaml.Node) []string {
	n = deref(n)
	tools := []string{}
	if n == nil {
		return tools
	}
	switch n.Kind {
	case yaml.ScalarNode:
		tools = append(tools, strings.Fields(scalarValue(n))...)
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if v := strings.TrimSpace(scalarValue(item)); v != "" {
				tools = append(tools, v)
			}
		}
	}
	return tools
}

func scalarValue(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
