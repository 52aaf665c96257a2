// Package main is a time-boxed throughput benchmark for the chunk parser.
//
// Every iteration tokenizes the same pre-built chunk with a fresh parser: 165
// marketplace transaction rows followed by half a row, so each chunk ends
// inside a quoted field.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shapestone/shape-csvstream/pkg/csv"
)

const (
	defaultDuration = 10 * time.Second
	rowsPerChunk    = 165
	fieldsPerRow    = 35
	mb              = 1024 * 1024
)

// rowTemplate is one transaction export row.
var rowTemplate = []string{
	`"CLIENT_0,000000,001"`, // client id
	"SHOPIFY",               // marketplace
	"SHOPIFY",               // sales channel
	"SALE",
	"TXN_1_ROW_1000",
	"25.99", // gross amount
	"21.99", // net value of goods
	"GBP",
	"Beauty Power Duo",
	"SKU_000001",
	"GB", // departure country
	"GB", // arrival country
	"10",
	"", // buyer VAT number
	"Dr Smith",
	`"123 Main's Street\n"`,
	"",
	"London",
	"SW1A 1AA",
	"ORD_000001",
	"INV_000001",
	"2024-01-01", // payment
	"2024-01-01", // invoice
	"2024-01-01", // dispatch
	"2024-01-01", // prep
	"",
	"",
	"",
	"CON_1",
	"NO",
	"",
	"false",
	"shopify",
	"file_1.json",
	"15.99", // consignment value
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv))
}

// buildChunk returns rowsPerChunk rows plus the first half of another row.
func buildChunk() string {
	row := strings.Join(rowTemplate, ",")
	var sb strings.Builder
	sb.Grow((len(row)+1)*rowsPerChunk + len(row)/2)
	for range rowsPerChunk {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	sb.WriteString(row[:len(row)/2])
	return sb.String()
}

// stats accumulates benchmark totals.
type stats struct {
	bytes   int64
	rows    int64
	chunks  int64
	elapsed time.Duration
}

func (s stats) mbPerSec() float64 {
	return float64(s.bytes) / mb / s.elapsed.Seconds()
}

func (s stats) rowsPerSec() float64 {
	return float64(s.rows) / s.elapsed.Seconds()
}

func heapMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / mb
}

// parseChunk tokenizes chunk with a fresh parser and checks its shape.
func parseChunk(chunk string, cfg csv.Config) (int, error) {
	res, err := csv.NewParser(cfg).ProcessChunk(chunk)
	if err != nil {
		return 0, err
	}
	if len(res.Rows) != rowsPerChunk {
		return 0, fmt.Errorf("parsed %d rows, want %d", len(res.Rows), rowsPerChunk)
	}
	return len(res.Rows), nil
}

// benchmark runs parseChunk until d has passed, reporting progress every
// progress interval.
func benchmark(d, progress time.Duration, out io.Writer) (stats, error) {
	chunk := buildChunk()
	cfg := csv.DefaultConfig()

	// Check the fields once; the timed loop only counts rows.
	res, err := csv.NewParser(cfg).ProcessChunk(chunk)
	if err != nil {
		return stats{}, err
	}
	for i, row := range res.Rows {
		if len(row) != fieldsPerRow {
			return stats{}, fmt.Errorf("row %d has %d fields, want %d", i, len(row), fieldsPerRow)
		}
	}

	var st stats
	start := time.Now()
	lastProgress := start
	for time.Since(start) < d {
		rows, err := parseChunk(chunk, cfg)
		if err != nil {
			return st, err
		}
		st.bytes += int64(len(chunk))
		st.rows += int64(rows)
		st.chunks++

		if now := time.Now(); progress > 0 && now.Sub(lastProgress) >= progress {
			st.elapsed = now.Sub(start)
			fmt.Fprintf(out, "Progress: %.1fs - %.0f MB/s, %.0f rows/s, %d chunks, heap: %.1f MB\n",
				st.elapsed.Seconds(), st.mbPerSec(), st.rowsPerSec(), st.chunks, heapMB())
			lastProgress = now
		}
	}
	st.elapsed = time.Since(start)
	return st, nil
}

func run(args []string, stdout, stderr io.Writer, lookup func(string) (string, bool)) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	duration := defaultDuration
	if v, ok := lookup("CSV_BENCH_DURATION"); ok {
		d, err := parseDuration(v)
		if err != nil {
			logger.Error("invalid CSV_BENCH_DURATION", "value", v, "error", err)
			return 2
		}
		duration = d
	}

	fs := flag.NewFlagSet("csvbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.DurationVar(&duration, "duration", duration, "How long to run (overrides CSV_BENCH_DURATION)")
	progress := fs.Duration("progress", 10*time.Second, "Progress report interval (0 disables)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	runID := uuid.New()
	logger.Info("starting benchmark", "run_id", runID, "duration", duration)
	fmt.Fprintf(stdout, "Running single-threaded time-based benchmark for %s...\n", duration)

	startHeap := heapMB()
	st, err := benchmark(duration, *progress, stdout)
	if err != nil {
		logger.Error("benchmark failed", "run_id", runID, "error", err)
		return 1
	}
	report(stdout, st, startHeap, heapMB())
	logger.Info("benchmark finished", "run_id", runID, "chunks", st.chunks)
	return 0
}

func report(w io.Writer, st stats, startHeap, endHeap float64) {
	fields := st.rows * fieldsPerRow
	fmt.Fprintln(w, "\n=== BENCHMARK RESULTS ===")
	fmt.Fprintf(w, "Duration: %.2f seconds\n", st.elapsed.Seconds())
	fmt.Fprintf(w, "Total bytes processed: %.2f MB\n", float64(st.bytes)/mb)
	fmt.Fprintf(w, "Total rows processed: %d\n", st.rows)
	fmt.Fprintf(w, "Total chunks processed: %d\n", st.chunks)
	fmt.Fprintf(w, "Average throughput: %.2f MB/s\n", st.mbPerSec())
	fmt.Fprintf(w, "Average rows/second: %.0f\n", st.rowsPerSec())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== CSV & CHUNK STATISTICS ===")
	if st.chunks > 0 {
		avg := float64(st.bytes) / float64(st.chunks)
		fmt.Fprintf(w, "Average chunk size: %.1f KB (%.0f bytes)\n", avg/1024, avg)
		fmt.Fprintf(w, "Average rows per chunk: %.1f\n", float64(st.rows)/float64(st.chunks))
	}
	fmt.Fprintf(w, "Total CSV fields processed: %d\n", fields)
	fmt.Fprintf(w, "Average fields/second: %.0f\n", float64(fields)/st.elapsed.Seconds())
	fmt.Fprintf(w, "CSV fields per row: %d\n", fieldsPerRow)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Heap usage: start %.1f MB, end %.1f MB\n", startHeap, endHeap)
}

// parseDuration accepts a Go duration or a whole number of seconds.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	var secs uint
	if _, err := fmt.Sscanf(v, "%d", &secs); err != nil || fmt.Sprint(secs) != v {
		return 0, fmt.Errorf("want seconds or a duration, got %q", v)
	}
	return time.Duration(secs) * time.Second, nil
}
