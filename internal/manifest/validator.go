package manifest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agentx-labs/skillkit/internal/standard"
)

// SuggestedNameLimit bounds the output of SuggestName.
const SuggestedNameLimit = 64

var (
	invalidNameRun = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRun      = regexp.MustCompile(`-+`)
)

// ValidateName checks name against the standard's rules and returns the
// first failure. The checks always run in the same order: empty, length,
// pattern, leading hyphen, trailing hyphen, consecutive hyphens.
func ValidateName(name string, rules standard.Rules) error {
	if name == "" {
		return ErrEmptyName
	}
	if n := utf8.RuneCountInString(name); n > rules.NameLimit {
		return &NameTooLongError{Length: n, Limit: rules.NameLimit}
	}
	if rules.NamePattern != nil && !rules.NamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidNameCharacters, name, rules.NamePattern)
	}
	if rules.StrictHyphens {
		if strings.HasPrefix(name, "-") {
			return fmt.Errorf("%w: %q", ErrLeadingHyphen, name)
		}
		if strings.HasSuffix(name, "-") {
			return fmt.Errorf("%w: %q", ErrTrailingHyphen, name)
		}
		if strings.Contains(name, "--") {
			return fmt.Errorf("%w: %q", ErrDoubleHyphen, name)
		}
	}
	return nil
}

// ValidateDescription checks a description against the standard's limit.
func ValidateDescription(text string, rules standard.Rules) error {
	if text == "" {
		return ErrEmptyDescription
	}
	if n := utf8.RuneCountInString(text); n > rules.DescriptionLimit {
		return &DescriptionTooLongError{Length: n, Limit: rules.DescriptionLimit}
	}
	return nil
}

// SuggestName repairs raw into a lower-kebab name. The result is a
// suggestion and may be empty; callers must validate it before use.
func SuggestName(raw string) string {
	name := strings.ToLower(raw)
	name = invalidNameRun.ReplaceAllString(name, "-")
	name = hyphenRun.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if len(name) > SuggestedNameLimit {
		name = strings.TrimRight(name[:SuggestedNameLimit], "-")
	}
	return name
}

// ValidatePackage parses the manifest in dir and applies the install-time
// checks: name rules, name equal to the directory name, description rules.
// The parsed record is returned even when a rule check fails.
func ValidatePackage(dir string, rules standard.Rules) (*Record, error) {
	rec, err := ParseDir(dir)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(rec.Name, rules); err != nil {
		return rec, err
	}
	if base := filepath.Base(dir); base != rec.Name {
		return rec, &NameMismatchError{Dir: base, Name: rec.Name}
	}
	if err := ValidateDescription(rec.Description, rules); err != nil {
		return rec, err
	}
	return rec, nil
}
