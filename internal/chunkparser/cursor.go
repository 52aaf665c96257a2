package chunkparser

import "unicode/utf8"

// char is one decoded character of a chunk. Bytes that do not start a valid
// UTF-8 sequence are yielded one at a time with raw set, so the field
// accumulator can keep them verbatim.
type char struct {
	r    rune
	b    byte
	off  int
	size int
	raw  bool
}

// cursor walks a chunk by character with one character of lookahead.
type cursor struct {
	s   string
	pos int
}

// peek returns the next character without consuming it.
func (c *cursor) peek() (char, bool) {
	if c.pos >= len(c.s) {
		return char{}, false
	}
	b := c.s[c.pos]
	if b < utf8.RuneSelf {
		return char{r: rune(b), b: b, off: c.pos, size: 1}, true
	}
	r, size := utf8.DecodeRuneInString(c.s[c.pos:])
	return char{
		r:    r,
		b:    b,
		off:  c.pos,
		size: size,
		raw:  r == utf8.RuneError && size == 1,
	}, true
}

// next consumes and returns the next character.
func (c *cursor) next() (char, bool) {
	ch, ok := c.peek()
	if ok {
		c.pos += ch.size
	}
	return ch, ok
}
