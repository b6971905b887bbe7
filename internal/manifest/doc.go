// Package manifest parses and validates SKILL.md manifests. A manifest is a
// YAML frontmatter block between two "---" lines followed by a free-form
// Markdown body. The header is structurally checked against an embedded JSON
// Schema, then name and description are validated against the rules of the
// standard that owns the package.
package manifest
