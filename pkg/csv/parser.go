package csv

import (
	"github.com/shapestone/shape-csvstream/internal/chunkparser"
	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// ChunkResult is what one ProcessChunk call produced.
type ChunkResult struct {
	// Rows holds the records completed in this chunk, in input order.
	// Blank lines never appear.
	Rows [][]string
	// Leftover is the unconsumed suffix of the chunk when it ended inside a
	// quoted field. It does not need to be fed again.
	Leftover string
}

// Parser is a chunk-resumable tokenizer. It remembers the open field and
// row between calls, so callers may slice the input anywhere inside a quoted
// field or right after a record terminator.
//
// A Parser must be used by one goroutine at a time and fed chunks in order.
// After an error it must be discarded.
type Parser struct {
	cfg  Config
	proc *chunkparser.Processor
}

// NewParser creates a Parser. The configuration is copied and not validated.
func NewParser(cfg Config) *Parser {
	return &Parser{
		cfg:  cfg,
		proc: chunkparser.New(cfg.dialect()),
	}
}

// ProcessChunk tokenizes one chunk. An empty chunk signals end of input and
// flushes a pending quoted field, or fails with ErrUnclosedQuote.
//
// A non-empty chunk that ends inside an unquoted field, or right after a
// closing quote, is completed on the spot and the Parser finishes. Use a
// Feeder when chunk boundaries are arbitrary.
func (p *Parser) ProcessChunk(chunk string) (ChunkResult, error) {
	res, err := p.proc.ProcessChunk(chunk)
	if err != nil {
		return ChunkResult{}, err
	}
	return ChunkResult{Rows: res.Rows, Leftover: res.Leftover}, nil
}

// Config returns the parser configuration.
func (p *Parser) Config() Config {
	return p.cfg
}

// Finished reports whether the parser reached its terminal state.
func (p *Parser) Finished() bool {
	return p.proc.State() == fsm.Finished
}

// InQuotedField reports whether a quoted field is open across the last
// chunk boundary.
func (p *Parser) InQuotedField() bool {
	return p.proc.State().Partial()
}

// InputOffset returns the number of input bytes consumed so far.
func (p *Parser) InputOffset() int64 {
	return p.proc.Offset()
}
