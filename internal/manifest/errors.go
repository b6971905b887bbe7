package manifest

import (
	"errors"
	"fmt"
)

// Validation failures with no parameters. Returned errors wrap these so
// callers can match with errors.Is while still seeing the offending value.
var (
	ErrEmptyName             = errors.New("name must not be empty")
	ErrInvalidNameCharacters = errors.New("name contains characters not allowed by the standard")
	ErrLeadingHyphen         = errors.New("name must not start with a hyphen")
	ErrTrailingHyphen        = errors.New("name must not end with a hyphen")
	ErrDoubleHyphen          = errors.New("name must not contain consecutive hyphens")
	ErrEmptyDescription      = errors.New("description must not be empty")
	ErrMissingManifest       = errors.New("manifest file not found")
	ErrMalformedHeader       = errors.New("manifest must start with a '---' delimited frontmatter block")
)

// NameTooLongError reports a name over the standard's length limit.
type NameTooLongError struct {
	Length int
	Limit  int
}

func (e *NameTooLongError) Error() string {
	return fmt.Sprintf("name is too long (%d characters, limit %d)", e.Length, e.Limit)
}

// DescriptionTooLongError reports a description over the standard's limit.
type DescriptionTooLongError struct {
	Length int
	Limit  int
}

func (e *DescriptionTooLongError) Error() string {
	return fmt.Sprintf("description is too long (%d characters, limit %d)", e.Length, e.Limit)
}

// MissingFieldError reports a required header field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// HeaderParseError reports frontmatter that is not valid structured data or
// does not have the expected shape.
type HeaderParseError struct {
	Path   string
	Issues []string
	Err    error
}

func (e *HeaderParseError) Error() string {
	msg := "parsing frontmatter"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	if len(e.Issues) > 0 {
		return msg + ": " + joinIssues(e.Issues)
	}
	return msg
}

func (e *HeaderParseError) Unwrap() error { return e.Err }

// NameMismatchError reports a manifest name that differs from the name of
// the directory holding it.
type NameMismatchError struct {
	Dir  string
	Name string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("directory name (%s) does not match skill name (%s)", e.Dir, e.Name)
}

func joinIssues(issues []string) string {
	out := issues[0]
	for _, s := range issues[1:] {
		out += "; " + s
	}
	return out
}
