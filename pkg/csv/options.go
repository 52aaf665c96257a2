// Package csv provides configurable options for CSV tokenizing and writing.
package csv

import (
	"unicode/utf8"

	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// Config selects the three characters that drive tokenizing.
//
// When Quote equals Escape the dialect is RFC 4180: a doubled quote inside a
// quoted field stands for one quote. When they differ, the character after
// Escape inside a quoted field is always taken literally.
type Config struct {
	// Delimiter separates fields. Default: ','
	Delimiter rune
	// Quote opens and closes quoted fields. Default: '"'
	Quote rune
	// Escape escapes the next character inside a quoted field. Default: '"'
	Escape rune
}

// DefaultConfig returns the RFC 4180 configuration: comma, double quote,
// doubled-quote escaping.
func DefaultConfig() Config {
	d := fsm.DefaultDialect()
	return Config{Delimiter: d.Delimiter, Quote: d.Quote, Escape: d.Escape}
}

// RFC4180 reports whether quotes are escaped by doubling.
func (c Config) RFC4180() bool {
	return c.Quote == c.Escape
}

func (c Config) dialect() fsm.Dialect {
	return fsm.Dialect{Delimiter: c.Delimiter, Quote: c.Quote, Escape: c.Escape}
}

// validChar reports whether r can play a structural role.
func validChar(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// Validate checks that the characters are usable and play distinct roles.
// Parsers do not call Validate; coinciding characters are tolerated by the
// state machine but rarely what a caller wants.
func (c Config) Validate() error {
	if !validChar(c.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if !validChar(c.Quote) {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if !validChar(c.Escape) {
		return &OptionsError{Field: "Escape", Message: "invalid escape character"}
	}
	if c.Delimiter == c.Quote {
		return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	}
	if c.Delimiter == c.Escape {
		return &OptionsError{Field: "Escape", Message: "escape character same as delimiter"}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
