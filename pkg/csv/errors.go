// Package csv provides the error types returned while tokenizing.
package csv

import (
	"errors"

	"github.com/shapestone/shape-csvstream/internal/chunkparser"
	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// Parsing errors. Every tokenizer error is delivered wrapped in a *ParseError;
// use errors.Is to test for the kind.
var (
	// ErrUnclosedQuote indicates end of input inside a quoted field or right
	// after an escape character.
	ErrUnclosedQuote = fsm.ErrUnclosedQuote

	// ErrDataAfterClosingQuote indicates a closing quote followed by something
	// other than a delimiter, a record terminator or the escape character.
	// ParseError.Char holds the offending character.
	ErrDataAfterClosingQuote = fsm.ErrDataAfterClosingQuote

	// ErrInvalidUTF8 indicates a field whose bytes are not valid UTF-8.
	ErrInvalidUTF8 = chunkparser.ErrInvalidUTF8

	// ErrRecordTooLarge indicates that a Feeder or Scanner buffered more than
	// its limit without seeing a record terminator.
	ErrRecordTooLarge = errors.New("record exceeds maximum size")
)

// ParseError represents a tokenizer error with position information.
// Lines and columns are 1-indexed and counted over all chunks fed so far.
type ParseError = chunkparser.ParseError
