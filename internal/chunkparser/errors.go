package chunkparser

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// ErrInvalidUTF8 is returned when a finished field is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("field is not valid UTF-8")

// ParseError reports a fatal tokenizer error with its position in the stream.
type ParseError struct {
	// StartLine is the line where the failing record began (1-indexed).
	StartLine int
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Column is the character column where the error occurred (1-indexed).
	Column int
	// Offset is the byte offset of the error in the whole stream.
	Offset int64
	// Char is the offending character for fsm.ErrDataAfterClosingQuote.
	Char rune
	// Err is the underlying sentinel error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if errors.Is(e.Err, fsm.ErrDataAfterClosingQuote) {
		msg = fmt.Sprintf("%v %q", e.Err, e.Char)
	}
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %s", e.Line, e.Column, msg)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %s",
		e.Line, e.StartLine, e.Column, msg)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
