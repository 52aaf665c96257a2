package fsm

// EndOfInput is passed to Transition in place of a character once the input
// is exhausted.
const EndOfInput rune = -1

// Transition maps (state, next character, dialect) to the next state and the
// action to apply. It never mutates anything; a failed transition returns
// ErrUnclosedQuote or ErrDataAfterClosingQuote and a zero Step.
func Transition(s State, c rune, d Dialect) (Step, error) {
	switch s {
	case StartOfField:
		return startOfField(c, d), nil
	case InUnquotedField:
		return inUnquotedField(c, d), nil
	case InQuotedField:
		return inQuotedField(c, d)
	case QuoteSeen:
		return quoteSeen(c, d)
	case CustomEscapeSeen:
		return customEscapeSeen(c)
	case EndOfRecord:
		return endOfRecord(c), nil
	default:
		return step(Finished, NoOp), nil
	}
}

func startOfField(c rune, d Dialect) Step {
	switch {
	case c == EndOfInput:
		return step(Finished, NoOp)
	case c == d.Quote:
		return step(InQuotedField, NoOp)
	case c == d.Delimiter:
		return step(StartOfField, CommitField)
	case isTerminator(c):
		return step(EndOfRecord, CommitRow)
	default:
		return appendStep(InUnquotedField, c)
	}
}

func inUnquotedField(c rune, d Dialect) Step {
	switch {
	case c == EndOfInput:
		return step(Finished, CommitField)
	case c == d.Delimiter:
		return step(StartOfField, CommitField)
	case isTerminator(c):
		return step(EndOfRecord, CommitRow)
	default:
		return appendStep(InUnquotedField, c)
	}
}

func inQuotedField(c rune, d Dialect) (Step, error) {
	switch {
	case c == EndOfInput:
		return Step{}, ErrUnclosedQuote
	case c == d.Quote:
		// Closing or escaped quote; QuoteSeen looks one character ahead.
		return step(QuoteSeen, NoOp), nil
	case c == d.Escape && d.CustomEscape():
		return step(CustomEscapeSeen, NoOp), nil
	default:
		return appendStep(InQuotedField, c), nil
	}
}

func quoteSeen(c rune, d Dialect) (Step, error) {
	switch {
	case c == EndOfInput:
		return step(Finished, CommitRow), nil
	case c == d.Escape:
		// In RFC 4180 mode this is the second quote of a doubled pair.
		return step(InQuotedField, AppendEscapedQuote), nil
	case c == d.Delimiter:
		return step(StartOfField, CommitField), nil
	case isTerminator(c):
		return step(EndOfRecord, CommitRow), nil
	default:
		return Step{}, ErrDataAfterClosingQuote
	}
}

func customEscapeSeen(c rune) (Step, error) {
	if c == EndOfInput {
		return Step{}, ErrUnclosedQuote
	}
	// The escaped character is data, never a delimiter, quote or terminator.
	return appendStep(InQuotedField, c), nil
}

func endOfRecord(c rune) Step {
	switch {
	case c == EndOfInput:
		return step(Finished, NoOp)
	case isTerminator(c):
		return step(EndOfRecord, NoOp)
	default:
		return step(StartOfField, NoOp)
	}
}
