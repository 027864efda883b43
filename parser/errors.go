package parser

import (
	"errors"
	"fmt"

	"github.com/lpkit/lpkit/token"
)

var (
	// ErrMissingSense reports input with no Minimize/Maximize header.
	ErrMissingSense = errors.New("missing objective sense")
	// ErrMissingSubjectTo reports input with no Subject To section.
	ErrMissingSubjectTo = errors.New("missing Subject To section")
	// ErrEmptySection reports a required section with no entries.
	ErrEmptySection = errors.New("empty section")
)

// Error is a parse error tagged with the section being parsed and the
// position of the offending token.
type Error struct {
	Pos     token.Position
	Section string
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Section, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }
