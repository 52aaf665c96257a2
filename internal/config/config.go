// Package config loads csvchunk settings.
//
// Settings are layered, later layers winning:
//
//	defaults < config file (.toml, .yaml, .yml) < CSVCHUNK_* environment < flags
//
// Flags are applied by the caller; this package handles the first three.
package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shapestone/shape-csvstream/pkg/csv"
)

// Output formats understood by csvchunk.
const (
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
	FormatTable = "table"
)

// Settings holds every tunable of the csvchunk tool.
type Settings struct {
	Delimiter     string `toml:"delimiter" yaml:"delimiter"`
	Quote         string `toml:"quote" yaml:"quote"`
	Escape        string `toml:"escape" yaml:"escape"`
	Encoding      string `toml:"encoding" yaml:"encoding"`
	ChunkSize     int    `toml:"chunk_size" yaml:"chunk_size"`
	MaxRecordSize int    `toml:"max_record_size" yaml:"max_record_size"`
	// Format is csv, jsonl or table. Empty picks table on a terminal and
	// csv otherwise.
	Format   string `toml:"format" yaml:"format"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Delimiter:     ",",
		Quote:         `"`,
		Escape:        `"`,
		Encoding:      "utf-8",
		ChunkSize:     64 * 1024,
		MaxRecordSize: 16 * 1024 * 1024,
		LogLevel:      "info",
	}
}

// Validate checks ranges and enumerations, and that the three characters
// form a usable csv.Config.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return &ValidationError{Key: "chunk_size", Message: fmt.Sprintf("must be positive, got %d", s.ChunkSize)}
	}
	if s.MaxRecordSize < 0 {
		return &ValidationError{Key: "max_record_size", Message: fmt.Sprintf("must not be negative, got %d", s.MaxRecordSize)}
	}
	if s.Format != "" && !slices.Contains([]string{FormatCSV, FormatJSONL, FormatTable}, s.Format) {
		return &ValidationError{Key: "format", Message: fmt.Sprintf("unknown format %q", s.Format)}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(s.LogLevel)) {
		return &ValidationError{Key: "log_level", Message: fmt.Sprintf("unknown level %q", s.LogLevel)}
	}
	if _, err := csv.LookupEncoding(s.Encoding); err != nil {
		return &ValidationError{Key: "encoding", Message: err.Error()}
	}
	_, err := s.CSVConfig()
	return err
}

// CSVConfig converts the character settings to a validated csv.Config.
func (s Settings) CSVConfig() (csv.Config, error) {
	var cfg csv.Config
	var err error
	if cfg.Delimiter, err = parseChar("delimiter", s.Delimiter); err != nil {
		return csv.Config{}, err
	}
	if cfg.Quote, err = parseChar("quote", s.Quote); err != nil {
		return csv.Config{}, err
	}
	if cfg.Escape, err = parseChar("escape", s.Escape); err != nil {
		return csv.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return csv.Config{}, &ValidationError{Key: "dialect", Message: err.Error(), Err: err}
	}
	return cfg, nil
}

var charNames = map[string]rune{
	"tab":       '\t',
	`\t`:        '\t',
	"comma":     ',',
	"semicolon": ';',
	"pipe":      '|',
	"space":     ' ',
	"backslash": '\\',
}

// parseChar accepts a single character or one of the names in charNames.
func parseChar(key, v string) (rune, error) {
	if r, ok := charNames[strings.ToLower(v)]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(v) != 1 {
		return 0, &ValidationError{Key: key, Message: fmt.Sprintf("want a single character, got %q", v)}
	}
	r, _ := utf8.DecodeRuneInString(v)
	return r, nil
}
