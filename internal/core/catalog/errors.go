// Package catalog builds the immutable reference catalog of unit and upgrade
// cards that rosters are resolved against.
// This is part of the Functional Core - all functions are pure with no I/O.
package catalog

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyInput = errors.New("data bank is empty")

	// Parsing errors
	ErrInvalidData = errors.New("data bank is not valid YAML or JSON")

	// Card errors
	ErrInvalidCard      = errors.New("invalid card")
	ErrDuplicateUnit    = errors.New("duplicate unit card")
	ErrDuplicateUpgrade = errors.New("duplicate upgrade card")
)

// ParseError wraps errors with context about where parsing failed.
type ParseError struct {
	Field   string // e.g., "units[3]"
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(field, message string, err error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// CardError reports a card rejected by the Builder.
type CardError struct {
	Kind  string // "unit" or "upgrade"
	Index int    // position in the data bank section
	Name  string
	Err   error
}

func (e *CardError) Error() string {
	return fmt.Sprintf("%ss[%d] %q: %v", e.Kind, e.Index, e.Name, e.Err)
}

func (e *CardError) Unwrap() error {
	return e.Err
}
