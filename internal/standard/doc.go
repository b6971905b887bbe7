// Package standard holds the closed table of skill package standards
// (AgentSkills, Claude, Codex) and the naming and directory rules each one
// imposes. Every consumer switches over ID exhaustively; adding a standard
// means adding a case to RulesFor and to All, and the package tests fail
// until both agree.
package standard
