// Package fsm implements the character-level state machine that drives the
// chunk parser.
//
// The machine is a closed set of states with one pure handler per state.
// Given the current state, the next character (or EndOfInput) and the dialect,
// Transition returns the next state and the action the caller must apply to
// its field and row accumulators. The package owns no mutable state.
package fsm

import "fmt"

// State is the parser position within the current field or record.
type State uint8

const (
	// StartOfField is the state before the first character of a field.
	StartOfField State = iota
	// InUnquotedField is the state inside a field that did not start with a quote.
	InUnquotedField
	// InQuotedField is the state inside a quoted field.
	InQuotedField
	// QuoteSeen follows a quote inside a quoted field. The next character
	// decides between a closing quote and an escaped quote.
	QuoteSeen
	// CustomEscapeSeen follows the escape character in custom-escape mode.
	CustomEscapeSeen
	// EndOfRecord follows a record terminator.
	EndOfRecord
	// Finished is terminal. Every further input is a no-op.
	Finished
	numStates
)

var stateNames = [numStates]string{
	StartOfField:     "StartOfField",
	InUnquotedField:  "InUnquotedField",
	InQuotedField:    "InQuotedField",
	QuoteSeen:        "QuoteSeen",
	CustomEscapeSeen: "CustomEscapeSeen",
	EndOfRecord:      "EndOfRecord",
	Finished:         "Finished",
}

// String returns the state name.
func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Partial reports whether s leaves a field open across a chunk boundary.
// Only these states carry accumulator contents into the next chunk.
func (s State) Partial() bool {
	return s == InQuotedField || s == CustomEscapeSeen
}

// ChunkCompletable reports whether s is resolved as if end-of-input was seen
// when a non-empty chunk runs out of characters.
func (s State) ChunkCompletable() bool {
	return s == InUnquotedField || s == QuoteSeen
}
