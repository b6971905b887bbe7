package manifest

import (
	"bytes"
	"encoding/json"

	"go.yaml.in/yaml/v3"
)

// FileName is the manifest file every package carries at its root.
const FileName = "SKILL.md"

// Optional package subdirectories.
const (
	ScriptsDir    = "scripts"
	ReferencesDir = "references"
	AssetsDir     = "assets"
)

// Record is a parsed SKILL.md manifest.
type Record struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	License       string   `json:"license,omitempty"`
	Compatibility string   `json:"compatibility,omitempty"`
	Metadata      Metadata `json:"metadata"`
	AllowedTools  []string `json:"allowed_tools"`

	Body string `json:"-"`
	Path string `json:"-"` // manifest file path
}

// Version returns metadata.version, or "" when unset.
func (r *Record) Version() string { return r.Metadata.Get("version") }

// Author returns metadata.author, or "" when unset.
func (r *Record) Author() string { return r.Metadata.Get("author") }

// MetadataEntry is one key of the metadata block.
type MetadataEntry struct {
	Key   string
	Value string
}

// Metadata is the metadata block in source order. Keys are unique.
type Metadata []MetadataEntry

// Get returns the value for key, or "" when absent.
func (m Metadata) Get(key string) string {
	for _, e := range m {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// MarshalJSON encodes the block as a JSON object, keeping source order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the block as a YAML mapping, keeping source order.
func (m Metadata) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}
	return node, nil
}
