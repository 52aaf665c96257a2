// Package csv provides CSV dialect detection.
package csv

import (
	"strings"
)

// Sniffer guesses the Config of a sample: the delimiter and whether quotes
// are escaped by doubling or by a backslash. The quote is always '"'.
type Sniffer struct {
	sample    string
	delimiter rune
	escape    rune
	analyzed  bool
}

// NewSniffer creates a new Sniffer with a sample of CSV data.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string) *Sniffer {
	return &Sniffer{sample: sample}
}

func (s *Sniffer) analyze() {
	if s.analyzed {
		return
	}
	s.escape = s.detectEscape()
	s.delimiter = s.detectDelimiter()
	s.analyzed = true
}

// DetectDelimiter returns the detected field delimiter.
// Common delimiters checked: comma, tab, semicolon, pipe.
func (s *Sniffer) DetectDelimiter() rune {
	s.analyze()
	return s.delimiter
}

// DetectEscape returns '\\' when quotes in the sample are escaped with a
// backslash, and '"' otherwise.
func (s *Sniffer) DetectEscape() rune {
	s.analyze()
	return s.escape
}

// Config returns the detected configuration.
func (s *Sniffer) Config() Config {
	s.analyze()
	return Config{Delimiter: s.delimiter, Quote: '"', Escape: s.escape}
}

func (s *Sniffer) detectDelimiter() rune {
	if s.sample == "" {
		return ','
	}

	lines := strings.FieldsFunc(s.sample, func(r rune) bool { return r == '\n' || r == '\r' })
	if len(lines) > 1 && !strings.HasSuffix(s.sample, "\n") {
		// The last line is probably cut short.
		lines = lines[:len(lines)-1]
	}

	best, bestScore := ',', 0
	for _, delim := range []rune{',', '\t', ';', '|'} {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			counts = append(counts, s.countDelimiter(line, delim))
		}
		if len(counts) == 0 || counts[0] == 0 {
			continue
		}

		score := counts[0]
		consistent := true
		for _, c := range counts[1:] {
			if c != counts[0] {
				consistent = false
				break
			}
		}
		if consistent {
			score *= 10
		}
		if score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// countDelimiter counts occurrences of a delimiter, ignoring quoted sections.
func (s *Sniffer) countDelimiter(line string, delim rune) int {
	count := 0
	inQuotes := false
	escaped := false

	for _, ch := range line {
		switch {
		case escaped:
			escaped = false
		case inQuotes && s.escape == '\\' && ch == '\\':
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			count++
		}
	}
	return count
}

// detectEscape counts backslash-escaped and doubled quotes inside quoted
// text and picks the more frequent style.
func (s *Sniffer) detectEscape() rune {
	backslash := 0
	doubled := 0
	inQuotes := false

	for i := 0; i < len(s.sample); i++ {
		c := s.sample[i]
		switch {
		case !inQuotes && c == '"':
			inQuotes = true
		case inQuotes && c == '\\' && i+1 < len(s.sample) && s.sample[i+1] == '\\':
			i++
		case inQuotes && c == '\\' && i+1 < len(s.sample) && s.sample[i+1] == '"':
			backslash++
			i++
		case inQuotes && c == '"' && i+1 < len(s.sample) && s.sample[i+1] == '"':
			doubled++
			i++
		case inQuotes && c == '"':
			inQuotes = false
		}
	}

	if backslash > doubled {
		return '\\'
	}
	return '"'
}
