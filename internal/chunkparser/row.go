package chunkparser

// rowBuilder collects the fields of the record being parsed. Finalized rows
// are handed to the caller, so the next row gets a fresh slice sized by the
// widest row seen so far.
type rowBuilder struct {
	fields []string
	hint   int
}

func (r *rowBuilder) add(field string) {
	if r.fields == nil {
		r.fields = make([]string, 0, max(r.hint, 8))
	}
	r.fields = append(r.fields, field)
}

// finalize transfers ownership of the collected fields to the caller.
func (r *rowBuilder) finalize() []string {
	row := r.fields
	r.hint = max(r.hint, len(row))
	r.fields = nil
	return row
}

// clear drops any collected fields without handing them out.
func (r *rowBuilder) clear() {
	clear(r.fields)
	r.fields = r.fields[:0]
}

func (r *rowBuilder) len() int {
	return len(r.fields)
}

// isEmptyRow reports whether row stands for a blank line.
func isEmptyRow(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && row[0] == "")
}
