package chunkparser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-csvstream/internal/fsm"
)

// parseChunks feeds every chunk in order and then the end-of-input chunk,
// collecting all completed rows.
func parseChunks(d fsm.Dialect, chunks ...string) ([][]string, error) {
	p := New(d)
	var rows [][]string
	for _, c := range chunks {
		res, err := p.ProcessChunk(c)
		if err != nil {
			return nil, err
		}
		rows = append(rows, res.Rows...)
	}
	if p.State() != fsm.Finished {
		res, err := p.ProcessChunk("")
		if err != nil {
			return nil, err
		}
		rows = append(rows, res.Rows...)
	}
	return rows, nil
}

func TestProcessChunk_Rows(t *testing.T) {
	custom := fsm.Dialect{Delimiter: ',', Quote: '"', Escape: '\\'}

	tests := []struct {
		name    string
		dialect fsm.Dialect
		chunks  []string
		want    [][]string
	}{
		{
			name:    "basic CRLF record",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"Value1,Value2\r\n"},
			want:    [][]string{{"Value1", "Value2"}},
		},
		{
			name:    "quoted field split across chunks",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"Start,\"Field that ends mid-", "quote\",End\n"},
			want:    [][]string{{"Start", "Field that ends mid-quote", "End"}},
		},
		{
			name:    "blank lines are dropped",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"Row1\n\nRow2\r\n\r\nRow3\n"},
			want:    [][]string{{"Row1"}, {"Row2"}, {"Row3"}},
		},
		{
			name:    "many consecutive terminators",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"a\n\n\n\n\r\r\nb\n"},
			want:    [][]string{{"a"}, {"b"}},
		},
		{
			name:    "custom delimiter",
			dialect: fsm.Dialect{Delimiter: ';', Quote: '"', Escape: '"'},
			chunks:  []string{"Alpha;Beta;Gamma\n"},
			want:    [][]string{{"Alpha", "Beta", "Gamma"}},
		},
		{
			name:    "rfc doubled quotes",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"Field1,\"Value with \"\"Escaped\"\" Quote\",Field3\n"},
			want:    [][]string{{"Field1", "Value with \"Escaped\" Quote", "Field3"}},
		},
		{
			name:    "custom escape",
			dialect: custom,
			chunks:  []string{"A,\"Value with \\\"Escaped\\\" Quote\",B\n"},
			want:    [][]string{{"A", "Value with \"Escaped\" Quote", "B"}},
		},
		{
			name:    "custom escape keeps delimiter and terminator literal",
			dialect: custom,
			chunks:  []string{"\"a\\,b\\\nc\\\\\",d\n"},
			want:    [][]string{{"a,b\nc\\", "d"}},
		},
		{
			name:    "delimiter inside quotes",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"\"CLIENT_0,000000,001\",SHOPIFY,SALE\n"},
			want:    [][]string{{"CLIENT_0,000000,001", "SHOPIFY", "SALE"}},
		},
		{
			name:    "newline inside quotes",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"a,\"b\r\nc\",d\n"},
			want:    [][]string{{"a", "b\r\nc", "d"}},
		},
		{
			name:    "empty fields are kept",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{",,\na,\n,b\n"},
			want:    [][]string{{"", "", ""}, {"a", ""}, {"", "b"}},
		},
		{
			name:    "empty quoted field alone is a blank line",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"\"\"\nx\n"},
			want:    [][]string{{"x"}},
		},
		{
			name:    "utf8 fields",
			dialect: fsm.DefaultDialect(),
			chunks: []string{
				"Hello,🌟,café,ñoño,тест\n",
				"\"Field with 🌟 emoji\",normal,\"🎉🎊\"\n",
			},
			want: [][]string{
				{"Hello", "🌟", "café", "ñoño", "тест"},
				{"Field with 🌟 emoji", "normal", "🎉🎊"},
			},
		},
		{
			name:    "utf8 byte lengths one to four",
			dialect: fsm.DefaultDialect(),
			chunks: []string{
				"a,é,€,𝄞,🎵\n",
				"\"𝄞 G-clef\",\"🎵 music note\"\n",
			},
			want: [][]string{
				{"a", "é", "€", "𝄞", "🎵"},
				{"𝄞 G-clef", "🎵 music note"},
			},
		},
		{
			name:    "multibyte delimiter and quote",
			dialect: fsm.Dialect{Delimiter: '§', Quote: '«', Escape: '«'},
			chunks:  []string{"a§«b§c««d«§e\n"},
			want:    [][]string{{"a", "b§c«d", "e"}},
		},
		{
			name:    "final quoted field without terminator",
			dialect: fsm.DefaultDialect(),
			chunks:  []string{"x\n\"last\""},
			want:    [][]string{{"x"}, {"last"}},
		},
		{
			name:    "empty input",
			dialect: fsm.DefaultDialect(),
			chunks:  nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChunks(tt.dialect, tt.chunks...)
			if err != nil {
				t.Fatalf("parseChunks() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseChunks() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessChunk_Errors(t *testing.T) {
	tests := []struct {
		name      string
		chunks    []string
		wantErr   error
		wantChar  rune
		wantLine  int
		wantStart int
		wantCol   int
	}{
		{
			name:      "data after closing quote",
			chunks:    []string{"\"bad\"data\n"},
			wantErr:   fsm.ErrDataAfterClosingQuote,
			wantChar:  'd',
			wantLine:  1,
			wantStart: 1,
			wantCol:   6,
		},
		{
			name:      "unclosed quote at end of input",
			chunks:    []string{"Start,\"Unclosed field"},
			wantErr:   fsm.ErrUnclosedQuote,
			wantLine:  1,
			wantStart: 1,
			wantCol:   22,
		},
		{
			name:      "position counted across CRLF and chunks",
			chunks:    []string{"a\r", "\nb\n\"x\"y\n"},
			wantErr:   fsm.ErrDataAfterClosingQuote,
			wantChar:  'y',
			wantLine:  3,
			wantStart: 3,
			wantCol:   4,
		},
		{
			name:      "unclosed quote spanning lines",
			chunks:    []string{"a\n\"open\nmore"},
			wantErr:   fsm.ErrUnclosedQuote,
			wantLine:  3,
			wantStart: 2,
			wantCol:   5,
		},
		{
			name:      "invalid utf8 in field",
			chunks:    []string{"\"\xff\"\n"},
			wantErr:   ErrInvalidUTF8,
			wantLine:  2,
			wantStart: 1,
			wantCol:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseChunks(fsm.DefaultDialect(), tt.chunks...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Char != tt.wantChar {
				t.Errorf("Char = %q, want %q", pe.Char, tt.wantChar)
			}
			if pe.Line != tt.wantLine || pe.StartLine != tt.wantStart || pe.Column != tt.wantCol {
				t.Errorf("position = line %d (start %d) col %d, want line %d (start %d) col %d",
					pe.Line, pe.StartLine, pe.Column, tt.wantLine, tt.wantStart, tt.wantCol)
			}
		})
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{StartLine: 1, Line: 1, Column: 6, Char: 'd', Err: fsm.ErrDataAfterClosingQuote}
	want := "parse error on line 1, column 6: data after closing quote 'd'"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &ParseError{StartLine: 2, Line: 3, Column: 5, Err: fsm.ErrUnclosedQuote}
	want = "parse error on line 3 (started line 2), column 5: unclosed quoted field"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestProcessChunk_StickyError(t *testing.T) {
	p := New(fsm.DefaultDialect())
	_, err := p.ProcessChunk("\"x\"y\n")
	if err == nil {
		t.Fatal("expected error")
	}
	res, err2 := p.ProcessChunk("a,b\n")
	if err2 != err {
		t.Errorf("second call error = %v, want the first error %v", err2, err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows after error = %q, want none", res.Rows)
	}
	if p.Err() != err {
		t.Errorf("Err() = %v, want %v", p.Err(), err)
	}
}

func TestProcessChunk_FinishedIsTerminal(t *testing.T) {
	p := New(fsm.DefaultDialect())
	if _, err := p.ProcessChunk("a\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ProcessChunk(""); err != nil {
		t.Fatal(err)
	}
	if p.State() != fsm.Finished {
		t.Fatalf("State() = %v, want Finished", p.State())
	}
	res, err := p.ProcessChunk("b,c\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows after Finished = %q, want none", res.Rows)
	}
}

func TestProcessChunk_Leftover(t *testing.T) {
	p := New(fsm.DefaultDialect())

	res, err := p.ProcessChunk("a,\"open")
	if err != nil {
		t.Fatal(err)
	}
	if p.State() != fsm.InQuotedField {
		t.Fatalf("State() = %v, want InQuotedField", p.State())
	}
	if res.Leftover != "" {
		t.Errorf("Leftover = %q, want empty after a fully walked chunk", res.Leftover)
	}
	if len(res.Rows) != 0 {
		t.Errorf("Rows = %q, want none", res.Rows)
	}

	res, err = p.ProcessChunk(" field\"\n")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "open field"}}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("Rows = %q, want %q", res.Rows, want)
	}
	if p.State() != fsm.StartOfField {
		t.Errorf("State() = %v, want StartOfField", p.State())
	}
}

// An unquoted field, or a quoted field whose closing quote ends a chunk, is
// resolved at the chunk boundary and the processor finishes. Data in later
// chunks is ignored. Callers cut chunks on record terminators to avoid this.
func TestProcessChunk_BoundaryResolution(t *testing.T) {
	t.Run("unquoted field at boundary", func(t *testing.T) {
		p := New(fsm.DefaultDialect())
		res, err := p.ProcessChunk("a,b")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Rows) != 0 {
			t.Errorf("Rows = %q, want none", res.Rows)
		}
		if p.State() != fsm.Finished {
			t.Errorf("State() = %v, want Finished", p.State())
		}
		res, err = p.ProcessChunk("c\n")
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Rows) != 0 {
			t.Errorf("Rows after boundary = %q, want none", res.Rows)
		}
	})

	t.Run("closing quote at boundary", func(t *testing.T) {
		p := New(fsm.DefaultDialect())
		res, err := p.ProcessChunk("a,\"b\"")
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"a", "b"}}
		if !reflect.DeepEqual(res.Rows, want) {
			t.Errorf("Rows = %q, want %q", res.Rows, want)
		}
		if p.State() != fsm.Finished {
			t.Errorf("State() = %v, want Finished", p.State())
		}
	})

	t.Run("delimiter at boundary drops the open row", func(t *testing.T) {
		p := New(fsm.DefaultDialect())
		if _, err := p.ProcessChunk("a,"); err != nil {
			t.Fatal(err)
		}
		res, err := p.ProcessChunk("b\n")
		if err != nil {
			t.Fatal(err)
		}
		want := [][]string{{"b"}}
		if !reflect.DeepEqual(res.Rows, want) {
			t.Errorf("Rows = %q, want %q", res.Rows, want)
		}
	})
}

func TestProcessChunk_SplitCharacterInQuotedField(t *testing.T) {
	input := "\"𝄞€é\"\n"
	for i := 2; i < len(input)-3; i++ {
		got, err := parseChunks(fsm.DefaultDialect(), input[:i], input[i:])
		if err != nil {
			t.Fatalf("split at %d: %v", i, err)
		}
		want := [][]string{{"𝄞€é"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("split at %d = %q, want %q", i, got, want)
		}
	}
}

// Splitting anywhere the processor keeps a partial field, or right after a
// record terminator, yields the same rows as a single chunk.
func TestProcessChunk_ChunkInvariance(t *testing.T) {
	inputs := []struct {
		dialect fsm.Dialect
		input   string
	}{
		{fsm.DefaultDialect(), "\"alpha\",\"be\nta\"\r\n\"𝄞 clef\",\"x\"\"y\"\n\n\"CLIENT_0,000000,001\",SHOPIFY\n"},
		{fsm.Dialect{Delimiter: ',', Quote: '"', Escape: '\\'}, "\"a\\\"b\",\"c,d\"\n\"e\\\\\",\"f\ng\"\r\n"},
		{fsm.Dialect{Delimiter: '\t', Quote: '\'', Escape: '\''}, "'tab\there'\t'it''s'\n'x'\t'y'\n"},
	}

	for _, in := range inputs {
		want, err := parseChunks(in.dialect, in.input)
		if err != nil {
			t.Fatalf("single chunk %q: %v", in.input, err)
		}

		tested := 0
		for i := 1; i < len(in.input); i++ {
			p := New(in.dialect)
			first, err := p.ProcessChunk(in.input[:i])
			if err != nil {
				t.Fatalf("split at %d: %v", i, err)
			}
			safe := p.State().Partial() ||
				(p.State() == fsm.StartOfField && strings.ContainsAny(in.input[i-1:i], "\r\n"))
			if !safe {
				continue
			}
			tested++

			rest, err := p.ProcessChunk(in.input[i:])
			if err != nil {
				t.Fatalf("split at %d: %v", i, err)
			}
			end, err := p.ProcessChunk("")
			if err != nil {
				t.Fatalf("split at %d: %v", i, err)
			}
			var got [][]string
			got = append(got, first.Rows...)
			got = append(got, rest.Rows...)
			got = append(got, end.Rows...)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("%q split at %d = %q, want %q", in.input, i, got, want)
			}
		}
		if tested < len(in.input)/2 {
			t.Errorf("%q: only %d safe split points exercised", in.input, tested)
		}
	}
}

func TestProcessChunk_OneCharacterAtATime(t *testing.T) {
	input := "\"a,b\",\"c\nd\"\n\"e\"\"f\",\"g\"\n"
	p := New(fsm.DefaultDialect())
	var got [][]string
	for _, r := range input {
		res, err := p.ProcessChunk(string(r))
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, res.Rows...)
	}
	// The first closing quote ends a chunk, so the first field completes
	// the row on its own and the processor finishes.
	want := [][]string{{"a,b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

func TestProcessChunk_Offset(t *testing.T) {
	p := New(fsm.DefaultDialect())
	if _, err := p.ProcessChunk("é,b\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ProcessChunk("\"c"); err != nil {
		t.Fatal(err)
	}
	if got := p.Offset(); got != 7 {
		t.Errorf("Offset() = %d, want 7", got)
	}
}

func BenchmarkProcessChunk(b *testing.B) {
	row := "\"CLIENT_0,000000,001\",SHOPIFY,SHOPIFY,SALE,TXN_1_ROW_1000,25.99,21.99,GBP,Beauty Power Duo\n"
	chunk := strings.Repeat(row, 200)
	b.SetBytes(int64(len(chunk)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := New(fsm.DefaultDialect())
		if _, err := p.ProcessChunk(chunk); err != nil {
			b.Fatal(err)
		}
	}
}
