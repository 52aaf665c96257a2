// Package chunkparser drives the fsm state machine over caller-supplied
// chunks of text.
//
// A Processor keeps its state and its partially built field and row between
// calls, so a quoted field may span any number of chunks. An empty chunk
// marks the end of input.
package chunkparser

import (
	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// Result is the outcome of one ProcessChunk call.
type Result struct {
	// Rows are the records completed by this chunk, blank lines removed.
	Rows [][]string
	// Leftover is the unconsumed suffix of the chunk when it ended inside a
	// quoted field. The parser already holds that progress; it is informational.
	Leftover string
}

// Processor is a single-writer streaming tokenizer. It is not safe for
// concurrent use and chunks must be supplied in order.
type Processor struct {
	dialect fsm.Dialect
	state   fsm.State
	field   fieldBuilder
	row     rowBuilder
	pos     position
	err     error
}

// New returns a Processor in StartOfField with empty accumulators.
func New(d fsm.Dialect) *Processor {
	return &Processor{
		dialect: d,
		state:   fsm.StartOfField,
		field:   newFieldBuilder(d.Quote),
		pos:     newPosition(),
	}
}

// State returns the current state.
func (p *Processor) State() fsm.State {
	return p.state
}

// Dialect returns the dialect the processor was created with.
func (p *Processor) Dialect() fsm.Dialect {
	return p.dialect
}

// Offset returns the number of bytes consumed over all chunks.
func (p *Processor) Offset() int64 {
	return p.pos.offset
}

// Err returns the error that stopped the processor, if any.
func (p *Processor) Err() error {
	return p.err
}

// ProcessChunk consumes one chunk and returns the rows it completed.
//
// When a non-empty chunk ends in InUnquotedField or QuoteSeen the pending
// field (or row) is committed as if the input had ended there, and the
// processor moves to Finished. Callers that cannot guarantee chunks end on a
// record terminator should cut them on one; see csv.Feeder.
//
// Errors are sticky: once a call fails every later call returns the same error.
func (p *Processor) ProcessChunk(chunk string) (Result, error) {
	if p.err != nil {
		return Result{}, p.err
	}
	res, err := p.process(chunk)
	if err != nil {
		p.err = err
		return Result{}, err
	}
	return res, nil
}

func (p *Processor) process(chunk string) (Result, error) {
	var rows [][]string
	cur := cursor{s: chunk}
	consumed := 0

	for {
		ch, ok := cur.next()
		if !ok {
			break
		}
		if err := p.feed(ch, &rows); err != nil {
			return Result{}, err
		}

		if p.state == fsm.EndOfRecord {
			p.mergeTerminator(&cur)
			p.state = fsm.StartOfField
		}
		consumed = cur.pos
	}

	final, err := p.resolve(len(chunk) == 0)
	if err != nil {
		return Result{}, err
	}
	switch final.Action.Kind {
	case fsm.CommitField:
		if err := p.commitField(); err != nil {
			return Result{}, err
		}
	case fsm.CommitRow:
		if err := p.commitRow(&rows); err != nil {
			return Result{}, err
		}
	}

	res := Result{Rows: rows}
	if final.Next.Partial() {
		if consumed < len(chunk) {
			res.Leftover = chunk[consumed:]
		}
	} else {
		p.row.clear()
		p.field.reset()
	}
	p.state = final.Next
	return res, nil
}

// feed runs one character through the state machine and applies the action.
func (p *Processor) feed(ch char, rows *[][]string) error {
	if p.state == fsm.StartOfField && p.row.len() == 0 {
		p.pos.markRecordStart()
	}

	st, err := fsm.Transition(p.state, ch.r, p.dialect)
	if err != nil {
		return p.errorAt(err, ch.r)
	}
	p.pos.advance(ch)

	switch st.Action.Kind {
	case fsm.AppendChar:
		if ch.raw {
			p.field.appendRaw(ch.b)
		} else {
			p.field.appendChar(st.Action.Char)
		}
	case fsm.AppendEscapedQuote:
		p.field.appendEscapedQuote()
	case fsm.CommitField:
		if err := p.commitField(); err != nil {
			return err
		}
	case fsm.CommitRow:
		if err := p.commitRow(rows); err != nil {
			return err
		}
	}
	p.state = st.Next
	return nil
}

// mergeTerminator swallows the character after a record terminator when it
// is itself a terminator, so CRLF and blank lines never emit extra rows.
func (p *Processor) mergeTerminator(cur *cursor) {
	next, ok := cur.peek()
	if !ok {
		return
	}
	st, err := fsm.Transition(fsm.EndOfRecord, next.r, p.dialect)
	if err != nil || st.Next != fsm.EndOfRecord || st.Action.Kind != fsm.NoOp {
		return
	}
	cur.next()
	p.pos.advance(next)
}

// resolve decides what the end of a chunk means for the current state.
func (p *Processor) resolve(endOfInput bool) (fsm.Step, error) {
	if !endOfInput && !p.state.ChunkCompletable() {
		return fsm.Step{Next: p.state}, nil
	}
	st, err := fsm.Transition(p.state, fsm.EndOfInput, p.dialect)
	if err != nil {
		return fsm.Step{}, p.errorAt(err, fsm.EndOfInput)
	}
	return st, nil
}

func (p *Processor) commitField() error {
	s, err := p.field.finalize()
	if err != nil {
		return p.errorAt(err, 0)
	}
	p.row.add(s)
	return nil
}

func (p *Processor) commitRow(rows *[][]string) error {
	if err := p.commitField(); err != nil {
		return err
	}
	if row := p.row.finalize(); !isEmptyRow(row) {
		*rows = append(*rows, row)
	}
	return nil
}

func (p *Processor) errorAt(err error, c rune) error {
	pe := &ParseError{
		StartLine: p.pos.recordStart,
		Line:      p.pos.line,
		Column:    p.pos.column + 1,
		Offset:    p.pos.offset,
		Err:       err,
	}
	if c != fsm.EndOfInput {
		pe.Char = c
	}
	return pe
}
