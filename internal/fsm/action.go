package fsm

import "fmt"

// ActionKind is the effect a transition prescribes on the accumulators.
type ActionKind uint8

const (
	// NoOp leaves the accumulators untouched.
	NoOp ActionKind = iota
	// AppendChar appends Action.Char to the current field.
	AppendChar
	// AppendEscapedQuote appends the dialect's quote character to the current field.
	AppendEscapedQuote
	// CommitField moves the current field into the current row.
	CommitField
	// CommitRow commits the current field and then emits the current row.
	CommitRow
)

var actionNames = [...]string{
	NoOp:               "NoOp",
	AppendChar:         "AppendChar",
	AppendEscapedQuote: "AppendEscapedQuote",
	CommitField:        "CommitField",
	CommitRow:          "CommitRow",
}

// String returns the action kind name.
func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", uint8(k))
}

// Action is an ActionKind plus the character for AppendChar.
type Action struct {
	Kind ActionKind
	Char rune
}

// String formats the action, including the character for AppendChar.
func (a Action) String() string {
	if a.Kind == AppendChar {
		return fmt.Sprintf("AppendChar(%q)", a.Char)
	}
	return a.Kind.String()
}

// Step is the result of a transition.
type Step struct {
	Next   State
	Action Action
}

func step(next State, kind ActionKind) Step {
	return Step{Next: next, Action: Action{Kind: kind}}
}

func appendStep(next State, c rune) Step {
	return Step{Next: next, Action: Action{Kind: AppendChar, Char: c}}
}
