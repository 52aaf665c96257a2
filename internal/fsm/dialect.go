package fsm

// Dialect holds the three configurable characters. It is copied by value
// into every parser and never changes afterwards.
type Dialect struct {
	Delimiter rune
	Quote     rune
	Escape    rune
}

// DefaultDialect returns the RFC 4180 dialect: comma, double quote, and a
// doubled quote as escape.
func DefaultDialect() Dialect {
	return Dialect{Delimiter: ',', Quote: '"', Escape: '"'}
}

// RFC4180 reports whether quotes are escaped by doubling them.
func (d Dialect) RFC4180() bool {
	return d.Quote == d.Escape
}

// CustomEscape reports whether a distinct escape character is in use.
func (d Dialect) CustomEscape() bool {
	return d.Quote != d.Escape
}

func isTerminator(c rune) bool {
	return c == '\n' || c == '\r'
}
