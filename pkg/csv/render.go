// Package csv provides rendering of records back to CSV bytes.
package csv

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// Writer writes records in the dialect described by a Config, quoting
// exactly what the tokenizer would otherwise misread. Output produced by a
// Writer parses back to the same records with the same Config.
//
// The tokenizer drops blank records, so a record with no fields or a single
// empty field does not survive a round trip. The first is written as a blank
// line, the second as an empty quoted field.
type Writer struct {
	// UseCRLF terminates records with \r\n instead of \n.
	UseCRLF bool
	// AlwaysQuote quotes every field.
	AlwaysQuote bool

	cfg Config
	w   *bufio.Writer
}

// NewWriter returns a Writer that writes to w using cfg.
func NewWriter(w io.Writer, cfg Config) *Writer {
	return &Writer{
		cfg: cfg,
		w:   bufio.NewWriter(w),
	}
}

// Write writes one record. Output is buffered; call Flush when done.
func (w *Writer) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.cfg.Delimiter); err != nil {
				return err
			}
		}
		if err := w.writeField(field, len(record) == 1); err != nil {
			return err
		}
	}
	var err error
	if w.UseCRLF {
		_, err = w.w.WriteString("\r\n")
	} else {
		err = w.w.WriteByte('\n')
	}
	return err
}

// WriteAll writes records and flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeField(field string, only bool) error {
	if !w.AlwaysQuote && !w.needsQuotes(field, only) {
		_, err := w.w.WriteString(field)
		return err
	}

	q, esc := w.cfg.Quote, w.cfg.Escape
	if _, err := w.w.WriteRune(q); err != nil {
		return err
	}
	for len(field) > 0 {
		r, size := utf8.DecodeRuneInString(field)
		switch {
		case r == utf8.RuneError && size == 1:
			// Pass invalid bytes through; the reader reports them.
			if err := w.w.WriteByte(field[0]); err != nil {
				return err
			}
			field = field[1:]
			continue
		case r == q:
			if _, err := w.w.WriteRune(esc); err != nil {
				return err
			}
		case r == esc && !w.cfg.RFC4180():
			if _, err := w.w.WriteRune(esc); err != nil {
				return err
			}
		}
		if _, err := w.w.WriteString(field[:size]); err != nil {
			return err
		}
		field = field[size:]
	}
	_, err := w.w.WriteRune(q)
	return err
}

// needsQuotes reports whether field must be quoted to read back unchanged.
func (w *Writer) needsQuotes(field string, only bool) bool {
	if field == "" {
		return only
	}
	if strings.ContainsAny(field, "\r\n") ||
		strings.ContainsRune(field, w.cfg.Delimiter) ||
		strings.ContainsRune(field, w.cfg.Quote) {
		return true
	}
	return !w.cfg.RFC4180() && strings.ContainsRune(field, w.cfg.Escape)
}

// Render converts records to CSV bytes using cfg.
//
// Example:
//
//	out, _ := csv.Render([][]string{{"name", "note"}, {"Ann", "a,b"}}, csv.DefaultConfig())
//	// out: name,note\nAnn,"a,b"\n
func Render(records [][]string, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, cfg).WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
