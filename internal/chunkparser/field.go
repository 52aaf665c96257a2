package chunkparser

import "unicode/utf8"

// fieldBuilder accumulates the bytes of the field being parsed. The buffer is
// reused between fields, so its capacity tracks the largest field seen.
type fieldBuilder struct {
	buf   []byte
	quote []byte
}

func newFieldBuilder(quote rune) fieldBuilder {
	return fieldBuilder{
		buf:   make([]byte, 0, 256),
		quote: utf8.AppendRune(nil, quote),
	}
}

func (f *fieldBuilder) appendChar(r rune) {
	if r < utf8.RuneSelf {
		f.buf = append(f.buf, byte(r))
		return
	}
	f.buf = utf8.AppendRune(f.buf, r)
}

// appendRaw keeps a byte that did not decode on its own. A character split
// across chunks is reassembled this way.
func (f *fieldBuilder) appendRaw(b byte) {
	f.buf = append(f.buf, b)
}

func (f *fieldBuilder) appendEscapedQuote() {
	f.buf = append(f.buf, f.quote...)
}

// finalize returns the field as a string and empties the buffer.
func (f *fieldBuilder) finalize() (string, error) {
	if !utf8.Valid(f.buf) {
		return "", ErrInvalidUTF8
	}
	s := string(f.buf)
	f.buf = f.buf[:0]
	return s, nil
}

func (f *fieldBuilder) reset() {
	f.buf = f.buf[:0]
}

func (f *fieldBuilder) len() int {
	return len(f.buf)
}
