package fsm

import "errors"

var (
	// ErrUnclosedQuote is returned when end-of-input arrives inside a quoted
	// field or directly after a custom escape character.
	ErrUnclosedQuote = errors.New("unclosed quoted field")

	// ErrDataAfterClosingQuote is returned when a closing quote is followed by
	// something other than a delimiter, a record terminator or the escape character.
	ErrDataAfterClosingQuote = errors.New("data after closing quote")
)
