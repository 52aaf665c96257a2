package csv

import (
	"errors"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	defaultChunkSize = 8 * 1024
	minChunkSize     = 16
)

// Scanner reads records from an io.Reader one at a time. Input is read in
// fixed-size chunks and tokenized incrementally, so memory use is bounded
// by the chunk size plus the longest record.
//
// Example usage:
//
//	file, _ := os.Open("data.csv")
//	defer file.Close()
//
//	scanner := csv.NewScanner(file).SetChunkSize(64 * 1024)
//	for scanner.Scan() {
//	    fmt.Println(scanner.Record())
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader        io.Reader
	src           io.Reader
	cfg           Config
	enc           encoding.Encoding
	chunkSize     int
	maxRecordSize int

	feeder  *Feeder
	buf     []byte
	records [][]string
	index   int
	record  []string
	err     error
	eof     bool
	started bool
}

// NewScanner creates a Scanner with the default configuration and chunk size.
func NewScanner(reader io.Reader) *Scanner {
	return &Scanner{
		reader:    reader,
		cfg:       DefaultConfig(),
		chunkSize: defaultChunkSize,
	}
}

// SetConfig sets the tokenizer configuration. It has no effect once
// scanning has started. Returns the Scanner for method chaining.
func (s *Scanner) SetConfig(cfg Config) *Scanner {
	s.cfg = cfg
	return s
}

// SetChunkSize sets how many bytes are read per chunk. Sizes below 16 are
// raised to 16. Returns the Scanner for method chaining.
func (s *Scanner) SetChunkSize(n int) *Scanner {
	s.chunkSize = max(n, minChunkSize)
	return s
}

// SetMaxRecordSize limits how many bytes may be buffered while waiting for
// a line break. Zero means no limit. Scan fails with ErrRecordTooLarge once
// the limit is exceeded. Returns the Scanner for method chaining.
func (s *Scanner) SetMaxRecordSize(n int) *Scanner {
	s.maxRecordSize = n
	return s
}

// SetEncoding decodes input from enc before tokenizing. A nil encoding means
// UTF-8. Returns the Scanner for method chaining.
func (s *Scanner) SetEncoding(enc encoding.Encoding) *Scanner {
	s.enc = enc
	return s
}

// Scan advances to the next record. It returns false at end of input or on
// error; call Err to tell them apart.
func (s *Scanner) Scan() bool {
	if !s.started {
		s.start()
	}

	for s.index >= len(s.records) {
		if s.err != nil || s.eof {
			s.record = nil
			return false
		}
		s.records = s.records[:0]
		s.index = 0
		s.fill()
	}

	s.record = s.records[s.index]
	s.records[s.index] = nil
	s.index++
	return true
}

// Record returns the most recent record read by Scan. The slice is owned by
// the caller.
func (s *Scanner) Record() []string {
	return s.record
}

// Err returns the first non-EOF error encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// InputOffset returns the number of decoded bytes tokenized so far. Bytes
// still waiting for a line break are not counted.
func (s *Scanner) InputOffset() int64 {
	if s.feeder == nil {
		return 0
	}
	return s.feeder.Parser().InputOffset()
}

func (s *Scanner) start() {
	s.started = true
	s.src = transform.NewReader(s.reader, decodingTransformer(s.enc))
	s.feeder = NewFeeder(s.cfg).SetMaxPending(s.maxRecordSize)
	s.buf = make([]byte, s.chunkSize)
}

// fill reads one chunk and queues the records it completes.
func (s *Scanner) fill() {
	n, err := s.src.Read(s.buf)
	if n > 0 {
		rows, ferr := s.feeder.Feed(s.buf[:n])
		s.records = append(s.records, rows...)
		if ferr != nil {
			s.err = ferr
			return
		}
	}

	switch {
	case errors.Is(err, io.EOF):
		rows, ferr := s.feeder.Flush()
		s.records = append(s.records, rows...)
		s.err = ferr
		s.eof = true
	case err != nil:
		s.err = err
	}
}
