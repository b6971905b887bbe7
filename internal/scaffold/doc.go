// Package scaffold writes the skeleton of a new skill package: a SKILL.md
// with validated frontmatter and, on request, scripts/references/assets
// folders with a short README each. It backs the "skillkit create" command.
package scaffold
