package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/skillkit/internal/paths"
	"github.com/agentx-labs/skillkit/internal/standard"
)

// standardHelp lists the accepted --standard values.
func standardHelp() string {
	ids := make([]string, 0, len(standard.All()))
	for _, id := range standard.All() {
		ids = append(ids, id.String())
	}
	return strings.Join(ids, ", ")
}

// pickStandard returns the --standard value or the configured default.
func pickStandard(flag string) (standard.ID, error) {
	if flag == "" {
		return cfg.DefaultStandard, nil
	}
	id, err := standard.Parse(flag)
	if err != nil {
		return "", fmt.Errorf("%w (want one of %s)", err, standardHelp())
	}
	return id, nil
}

// pickStandards expands "all" (or nothing) to every standard.
func pickStandards(flag string) ([]standard.ID, error) {
	if flag == "" || strings.EqualFold(flag, "all") {
		return standard.All(), nil
	}
	id, err := pickStandard(flag)
	if err != nil {
		return nil, err
	}
	return []standard.ID{id}, nil
}

// pickScope returns the --scope value or the configured default.
func pickScope(flag string) (paths.Scope, error) {
	if flag == "" {
		return cfg.DefaultScope, nil
	}
	return paths.ParseScope(flag)
}
