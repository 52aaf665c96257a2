package chunkparser

// position tracks where the parser is in the whole stream, across chunks.
// A CRLF pair counts as a single line break even when split over two chunks.
type position struct {
	line        int
	column      int // characters consumed on the current line
	offset      int64
	recordStart int
	afterCR     bool
}

func newPosition() position {
	return position{line: 1, recordStart: 1}
}

func (p *position) advance(ch char) {
	p.offset += int64(ch.size)
	switch ch.r {
	case '\n':
		if !p.afterCR {
			p.line++
		}
		p.column = 0
		p.afterCR = false
	case '\r':
		p.line++
		p.column = 0
		p.afterCR = true
	default:
		p.column++
		p.afterCR = false
	}
}

func (p *position) markRecordStart() {
	p.recordStart = p.line
}
