package csv

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves an IANA character set name such as
// "windows-1252" or "UTF-16LE". UTF-8 (and the empty name) resolve to nil:
// input is then passed through untouched so invalid bytes are reported by
// the tokenizer instead of being replaced.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("csv: unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("csv: unsupported encoding %q", name)
	}
	return enc, nil
}

// decodingTransformer decodes enc to UTF-8. A leading byte order mark wins
// over enc and is stripped.
func decodingTransformer(enc encoding.Encoding) transform.Transformer {
	fallback := transform.Transformer(transform.Nop)
	if enc != nil {
		fallback = enc.NewDecoder()
	}
	return unicode.BOMOverride(fallback)
}
