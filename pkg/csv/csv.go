// Package csv tokenizes delimiter-separated text that may arrive in
// arbitrarily sized chunks.
//
// Tokenizing is driven by a small state machine configured with three
// characters: a delimiter, a quote and an escape. When the quote and escape
// are the same character the dialect is RFC 4180 (doubled quotes). When they
// differ, the escape character makes the next character inside a quoted
// field literal, e.g. "a \"quoted\" word".
//
// # Chunked parsing
//
// A Parser keeps the open field and row between ProcessChunk calls, so a
// chunk may end anywhere inside a quoted field or right after a record
// terminator. A chunk ending inside an unquoted field is completed on the
// spot. Feeder removes that restriction by holding back everything after
// the last line break, and Scanner builds on Feeder to read an io.Reader.
//
//	p := csv.NewParser(csv.DefaultConfig())
//	res, _ := p.ProcessChunk("name,\"multi\nline")
//	res, _ = p.ProcessChunk(" value\"\n")
//	// res.Rows: [["name", "multi\nline value"]]
//	_, err := p.ProcessChunk("") // end of input
//
// # Thread Safety
//
// Parser, Feeder, Scanner and Writer must be used by one goroutine at a
// time. The package-level functions are safe for concurrent use; each call
// creates its own parser.
//
// # Parsing APIs
//
//   - Parse(string, Config) - records from a string in memory
//   - ParseReader(io.Reader, Config) - records from any io.Reader
//   - ParseAST(string, Config) - records as a Shape AST table
//
// Blank lines are skipped everywhere. A line holding only an empty quoted
// field ("") counts as blank.
package csv

import (
	"io"
)

// Parse tokenizes a complete document. A final record without a line break
// is kept.
//
// Example:
//
//	records, err := csv.Parse("name,age\nAlice,30\nBob,25", csv.DefaultConfig())
//	// records: [["name" "age"] ["Alice" "30"] ["Bob" "25"]]
func Parse(input string, cfg Config) ([][]string, error) {
	f := NewFeeder(cfg)
	records, err := f.Feed([]byte(input))
	if err != nil {
		return nil, err
	}
	tail, err := f.Flush()
	if err != nil {
		return nil, err
	}
	return append(records, tail...), nil
}

// ParseReader tokenizes everything r yields. Input is read in chunks; only
// the records are held in memory. Use a Scanner to process records one at
// a time instead.
func ParseReader(reader io.Reader, cfg Config) ([][]string, error) {
	s := NewScanner(reader).SetConfig(cfg)
	var records [][]string
	for s.Scan() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}

// Validate checks that input tokenizes without error.
//
//	if err := csv.Validate(input, csv.DefaultConfig()); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string, cfg Config) error {
	_, err := Parse(input, cfg)
	return err
}

// ValidateReader checks that everything r yields tokenizes without error.
// Records are discarded as they are read.
func ValidateReader(reader io.Reader, cfg Config) error {
	s := NewScanner(reader).SetConfig(cfg)
	for s.Scan() {
	}
	return s.Err()
}
