// Package output renders records for the csvchunk tool.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/sjson"

	"github.com/shapestone/shape-csvstream/internal/config"
	"github.com/shapestone/shape-csvstream/pkg/csv"
)

// Formatter writes records in one output format.
type Formatter interface {
	Write(record []string) error
	// Flush writes anything still buffered.
	Flush() error
}

// New returns the Formatter for format. cfg is the dialect used for csv
// output.
func New(format string, w io.Writer, cfg csv.Config) (Formatter, error) {
	switch format {
	case config.FormatCSV:
		return csv.NewWriter(w, cfg), nil
	case config.FormatJSONL:
		return &jsonLines{w: bufio.NewWriter(w)}, nil
	case config.FormatTable:
		return &table{w: bufio.NewWriter(w), batch: defaultBatch}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// jsonLines writes every record as a JSON array of strings on its own line.
type jsonLines struct {
	w   *bufio.Writer
	buf []byte
}

func (j *jsonLines) Write(record []string) error {
	j.buf = append(j.buf[:0], "[]"...)
	for _, field := range record {
		var err error
		if j.buf, err = sjson.SetBytes(j.buf, "-1", field); err != nil {
			return err
		}
	}
	j.buf = append(j.buf, '\n')
	_, err := j.w.Write(j.buf)
	return err
}

func (j *jsonLines) Flush() error {
	return j.w.Flush()
}

const defaultBatch = 64

// table aligns columns over batches of records. Column widths are measured
// in terminal cells, so wide and combining characters line up.
type table struct {
	w     *bufio.Writer
	batch int
	rows  [][]string
}

func (t *table) Write(record []string) error {
	cells := make([]string, len(record))
	for i, f := range record {
		cells[i] = visible(f)
	}
	t.rows = append(t.rows, cells)
	if len(t.rows) >= t.batch {
		return t.Flush()
	}
	return nil
}

func (t *table) Flush() error {
	var widths []int
	for _, row := range t.rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], uniseg.StringWidth(cell))
		}
	}

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString(" | ")
			}
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell)))
			}
		}
		line.WriteByte('\n')
		if _, err := t.w.WriteString(line.String()); err != nil {
			return err
		}
	}
	t.rows = t.rows[:0]
	return t.w.Flush()
}

var controlReplacer = strings.NewReplacer("\r\n", `\r\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// visible keeps a field on one line.
func visible(s string) string {
	return controlReplacer.Replace(s)
}
