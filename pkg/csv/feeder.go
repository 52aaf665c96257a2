package csv

import (
	"bytes"
	"fmt"
)

// Feeder adapts arbitrary byte slices to a Parser. It holds back everything
// after the last CR or LF, so the Parser only ever sees chunks that end on a
// line break and never has to complete a field at a chunk boundary.
//
// CR and LF never occur inside a UTF-8 multi-byte sequence, so the chunks a
// Feeder hands out never split a character either.
type Feeder struct {
	parser     *Parser
	pending    []byte
	maxPending int
	err        error
}

// NewFeeder creates a Feeder around a new Parser.
func NewFeeder(cfg Config) *Feeder {
	return &Feeder{
		parser:  NewParser(cfg),
		pending: make([]byte, 0, defaultChunkSize),
	}
}

// SetMaxPending limits how many bytes may be held back while waiting for a
// line break. Zero means no limit. Returns the Feeder for method chaining.
func (f *Feeder) SetMaxPending(n int) *Feeder {
	f.maxPending = n
	return f
}

// Parser returns the underlying Parser.
func (f *Feeder) Parser() *Parser {
	return f.parser
}

// Pending returns the number of bytes held back.
func (f *Feeder) Pending() int {
	return len(f.pending)
}

// Feed appends data and returns the rows completed by it.
func (f *Feeder) Feed(data []byte) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(data) == 0 {
		return nil, nil
	}

	f.pending = append(f.pending, data...)
	idx := bytes.LastIndexAny(data, "\r\n")
	if idx < 0 {
		return nil, f.checkPending()
	}
	cut := len(f.pending) - len(data) + idx + 1

	res, err := f.parser.ProcessChunk(string(f.pending[:cut]))
	if err != nil {
		f.err = err
		return nil, err
	}
	n := copy(f.pending, f.pending[cut:])
	f.pending = f.pending[:n]
	return res.Rows, f.checkPending()
}

// Flush terminates a trailing record that has no line break, hands it to
// the Parser, and signals end of input.
func (f *Feeder) Flush() ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	var rows [][]string
	if len(f.pending) > 0 {
		f.pending = append(f.pending, '\n')
		res, err := f.parser.ProcessChunk(string(f.pending))
		f.pending = f.pending[:0]
		if err != nil {
			f.err = err
			return nil, err
		}
		rows = append(rows, res.Rows...)
	}

	if !f.parser.Finished() {
		res, err := f.parser.ProcessChunk("")
		if err != nil {
			f.err = err
			return nil, err
		}
		rows = append(rows, res.Rows...)
	}
	return rows, nil
}

func (f *Feeder) checkPending() error {
	if f.maxPending > 0 && len(f.pending) > f.maxPending {
		f.err = fmt.Errorf("%w: %d bytes without a line break", ErrRecordTooLarge, len(f.pending))
		return f.err
	}
	return nil
}
