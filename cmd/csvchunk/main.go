// Package main is the entry point for csvchunk, which tokenizes CSV from a
// file or stdin and prints the records as CSV, JSON lines or a table.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/shapestone/shape-csvstream/internal/config"
	"github.com/shapestone/shape-csvstream/internal/follow"
	"github.com/shapestone/shape-csvstream/internal/output"
	"github.com/shapestone/shape-csvstream/pkg/csv"
)

// Version information (set via ldflags during build).
var version = "dev"

const sniffSize = 64 * 1024

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.LookupEnv))
}

type options struct {
	configPath  string
	follow      bool
	sniff       bool
	showVersion bool
	// overrides holds the settings given on the command line.
	overrides config.Settings
	set       map[string]bool
	file      string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, lookup func(string) (string, bool)) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "csvchunk %s\n", version)
		return 0
	}

	settings, err := config.NewLoaderWith(config.OSFS{}, lookup).Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts.apply(&settings)

	var in io.Reader = stdin
	ctx := context.Background()
	if opts.file != "" && opts.file != "-" {
		if opts.follow {
			var stop context.CancelFunc
			ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			r, err := follow.Open(ctx, opts.file)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			defer r.Close()
			in = r
		} else {
			f, err := os.Open(opts.file)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			defer f.Close()
			in = f
		}
	} else if opts.follow {
		fmt.Fprintln(stderr, "Error: -follow needs a file argument")
		return 2
	}

	if opts.sniff {
		// One read's worth of input; a followed file may not have more yet.
		br := bufio.NewReaderSize(in, sniffSize)
		if _, err := br.Peek(1); err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "Error: reading sample: %v\n", err)
			return 1
		}
		sample, _ := br.Peek(br.Buffered())
		sniffed := csv.NewSniffer(string(sample)).Config()
		if !opts.set["delimiter"] {
			settings.Delimiter = string(sniffed.Delimiter)
		}
		if !opts.set["escape"] {
			settings.Escape = string(sniffed.Escape)
		}
		in = br
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger := newLogger(stderr, settings.LogLevel)

	if settings.Format == "" {
		settings.Format = config.FormatCSV
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			settings.Format = config.FormatTable
		}
	}

	if err := process(in, stdout, settings, logger); err != nil {
		logger.Error("tokenizing failed", "file", opts.file, "error", err)
		return 1
	}
	return 0
}

func process(in io.Reader, out io.Writer, settings config.Settings, logger *slog.Logger) error {
	cfg, err := settings.CSVConfig()
	if err != nil {
		return err
	}
	enc, err := csv.LookupEncoding(settings.Encoding)
	if err != nil {
		return err
	}
	formatter, err := output.New(settings.Format, out, cfg)
	if err != nil {
		return err
	}

	logger.Debug("starting",
		"delimiter", string(cfg.Delimiter),
		"quote", string(cfg.Quote),
		"escape", string(cfg.Escape),
		"encoding", settings.Encoding,
		"chunk_size", settings.ChunkSize,
		"format", settings.Format,
	)

	start := time.Now()
	scanner := csv.NewScanner(in).
		SetConfig(cfg).
		SetEncoding(enc).
		SetChunkSize(settings.ChunkSize).
		SetMaxRecordSize(settings.MaxRecordSize)

	records := 0
	for scanner.Scan() {
		if err := formatter.Write(scanner.Record()); err != nil {
			return err
		}
		records++
		if settings.Format != config.FormatTable {
			// Records trickle in when following; keep output current.
			if err := formatter.Flush(); err != nil {
				return err
			}
		}
	}
	flushErr := formatter.Flush()
	if err := scanner.Err(); err != nil {
		return err
	}
	if flushErr != nil {
		return flushErr
	}

	logger.Debug("done",
		"records", records,
		"bytes", scanner.InputOffset(),
		"elapsed", time.Since(start),
	)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	// Validated by config.Settings.Validate.
	_ = l.UnmarshalText([]byte(strings.ToUpper(level)))
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}
	o := &opts.overrides

	fs := flag.NewFlagSet("csvchunk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml, .yml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&o.Delimiter, "delimiter", "", "Field delimiter (a character, or tab, comma, semicolon, pipe, space)")
	fs.StringVar(&o.Delimiter, "d", "", "Field delimiter (shorthand)")
	fs.StringVar(&o.Quote, "quote", "", "Quote character")
	fs.StringVar(&o.Escape, "escape", "", "Escape character inside quoted fields (same as quote for RFC 4180)")
	fs.StringVar(&o.Encoding, "encoding", "", "Input character set (IANA name)")
	fs.IntVar(&o.ChunkSize, "chunk-size", 0, "Bytes read per chunk")
	fs.IntVar(&o.MaxRecordSize, "max-record-size", 0, "Maximum bytes buffered for one record (0 = unlimited)")
	fs.StringVar(&o.Format, "format", "", "Output format: csv, jsonl or table (default table on a terminal, csv otherwise)")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.follow, "follow", false, "Keep reading as the file grows")
	fs.BoolVar(&opts.follow, "f", false, "Keep reading as the file grows (shorthand)")
	fs.BoolVar(&opts.sniff, "sniff", false, "Detect delimiter and escape style from the input")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "csvchunk - streaming CSV tokenizer\n\n")
		fmt.Fprintf(stderr, "Usage: csvchunk [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment variables CSVCHUNK_DELIMITER, CSVCHUNK_CHUNK_SIZE, ... override the config file.\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  csvchunk data.csv                    Print records as a table\n")
		fmt.Fprintf(stderr, "  csvchunk -format jsonl < data.csv    One JSON array per record\n")
		fmt.Fprintf(stderr, "  csvchunk -sniff -f app.log.csv       Follow a growing file\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "Error: at most one input file, got %d\n", fs.NArg())
		return nil, errors.New("too many arguments")
	}
	opts.file = fs.Arg(0)

	names := map[string]string{"d": "delimiter"}
	fs.Visit(func(f *flag.Flag) {
		if long, ok := names[f.Name]; ok {
			opts.set[long] = true
			return
		}
		opts.set[f.Name] = true
	})
	return opts, nil
}

// apply copies the settings given on the command line over s.
func (o *options) apply(s *config.Settings) {
	v := o.overrides
	if o.set["delimiter"] {
		s.Delimiter = v.Delimiter
	}
	if o.set["quote"] {
		s.Quote = v.Quote
	}
	if o.set["escape"] {
		s.Escape = v.Escape
	}
	if o.set["encoding"] {
		s.Encoding = v.Encoding
	}
	if o.set["chunk-size"] {
		s.ChunkSize = v.ChunkSize
	}
	if o.set["max-record-size"] {
		s.MaxRecordSize = v.MaxRecordSize
	}
	if o.set["format"] {
		s.Format = v.Format
	}
	if o.set["log-level"] {
		s.LogLevel = v.LogLevel
	}
}
