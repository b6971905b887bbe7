package standard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ID identifies one of the supported standards.
type ID string

const (
	AgentSkills ID = "agentskills"
	Claude      ID = "claude"
	Codex       ID = "codex"
)

// ErrUnknownStandard is returned for any ID outside the supported set.
var ErrUnknownStandard = errors.New("unknown standard")

// lowerKebab is the character class shared by AgentSkills and Claude.
var lowerKebab = regexp.MustCompile(`^[a-z0-9-]+$`)

// Rules is the immutable descriptor for a standard.
// Empty directory fragments mean the scope is unsupported for the standard.
type Rules struct {
	ID          ID
	Name        string // short label used in discovery labels, e.g. "AgentSkills"
	DisplayName string

	NameLimit        int
	NamePattern      *regexp.Regexp // nil: no character check
	StrictHyphens    bool           // reject leading, trailing and double hyphens
	DescriptionLimit int

	UserDir       string // relative to $HOME
	ProjectDir    string // relative to the project root
	SystemPOSIX   string
	SystemWindows string

	// UserDirEnv overrides the user root. UserDirEnvSuffix is appended to
	// the override value (Codex points CODEX_HOME at its home, not at skills/).
	UserDirEnv       string
	UserDirEnvSuffix string
}

// All returns the supported standards in display order.
func All() []ID {
	return []ID{AgentSkills, Claude, Codex}
}

// RulesFor returns the rules of a standard.
func RulesFor(id ID) (Rules, error) {
	switch id {
	case AgentSkills:
		return Rules{
			ID:               AgentSkills,
			Name:             "AgentSkills",
			DisplayName:      "AgentSkills standard",
			NameLimit:        64,
			NamePattern:      lowerKebab,
			StrictHyphens:    true,
			DescriptionLimit: 1024,
			UserDir:          ".agent-skills",
			ProjectDir:       ".agent-skills",
			SystemPOSIX:      "/usr/local/share/agent-skills",
			SystemWindows:    "C:/ProgramData/agent-skills",
			UserDirEnv:       "AGENT_SKILLS_USER_DIR",
		}, nil
	case Claude:
		return Rules{
			ID:               Claude,
			Name:             "Claude",
			DisplayName:      "Claude Code standard",
			NameLimit:        64,
			NamePattern:      lowerKebab,
			DescriptionLimit: 1024,
			UserDir:          ".claude/skills",
			ProjectDir:       ".claude/skills",
			UserDirEnv:       "CLAUDE_SKILLS_DIR",
		}, nil
	case Codex:
		return Rules{
			ID:               Codex,
			Name:             "Codex",
			DisplayName:      "OpenAI Codex standard",
			NameLimit:        100,
			StrictHyphens:    true,
			DescriptionLimit: 500,
			UserDir:          ".codex/skills",
			ProjectDir:       ".codex/skills",
			SystemPOSIX:      "/etc/codex/skills",
			UserDirEnv:       "CODEX_HOME",
			UserDirEnvSuffix: "skills",
		}, nil
	default:
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownStandard, string(id))
	}
}

// MustRules is RulesFor for IDs known at compile time.
func MustRules(id ID) Rules {
	r, err := RulesFor(id)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse converts user input into an ID. Matching is case-insensitive.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, err := RulesFor(id); err != nil {
		return "", err
	}
	return id, nil
}

// SystemDir returns the system fragment for goos, or "" when unsupported.
func (r Rules) SystemDir(goos string) string {
	if goos == "windows" {
		return r.SystemWindows
	}
	return r.SystemPOSIX
}

func (id ID) String() string { return string(id) }
