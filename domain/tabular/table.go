package tabular

// Table is a raw delimited table as read from a source: trimmed header names
// and string cells, one slice per row aligned with Headers.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// Index returns the position of a header, or -1.
func (t *Table) Index(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
