package loader

import (
	"errors"
	"fmt"
	"strings"
)

// Include failures.
var (
	// ErrIncludeDepth is returned when includes nest deeper than allowed.
	ErrIncludeDepth = errors.New("include depth exceeded")

	// ErrIncludeCycle is returned when a file includes itself, directly or
	// through other files.
	ErrIncludeCycle = errors.New("include cycle")

	// ErrIncludeValue is returned when "@include" is not a string or a
	// list of strings.
	ErrIncludeValue = errors.New(`"@include" must be a string or a list of strings`)
)

// ParseError reports malformed TOML in a configuration file.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IncludeError reports a failure while resolving an include. Chain holds
// the files from the root configuration down to the one that failed.
type IncludeError struct {
	Chain []string
	Err   error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("include %s: %v", strings.Join(e.Chain, " -> "), e.Err)
}

func (e *IncludeError) Unwrap() error {
	return e.Err
}
