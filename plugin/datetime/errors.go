package datetime

import (
	"errors"
	"fmt"

	"github.com/hrygo/parsedate/plugin/datetime/items"
)

// Errors
var (
	ErrParse           = errors.New("parse error")
	ErrResolution      = errors.New("resolution error")
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// ParseError reports input that does not match the date grammar. Pos is
// the byte offset of the failure in Input.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: %s at offset %d", e.Input, e.Msg, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func newParseError(input string, err error) *ParseError {
	var ie *items.Error
	if errors.As(err, &ie) {
		return &ParseError{Input: input, Pos: ie.Pos, Msg: ie.Msg}
	}
	return &ParseError{Input: input, Msg: err.Error()}
}

// ResolutionError reports a grammatically valid input that names no
// representable instant, such as "Feb 30" or an offset past the supported
// year range.
type ResolutionError struct {
	Input string
	Msg   string
	Cause error
}

func (e *ResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid date %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("invalid date %q: %s: %v", e.Input, e.Msg, e.Cause)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Cause}
}
