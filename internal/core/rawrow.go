package core

// RawRow is one decoded spreadsheet row: an ordered mapping from column
// header, as it appeared in the source, to the cell's string value.
type RawRow struct {
	keys  []string
	cells map[string]string
}

// NewRawRow pairs headers with values. Missing values become empty cells,
// extra values are dropped, blank headers are skipped and a repeated header
// keeps its first cell.
func NewRawRow(headers, values []string) RawRow {
	row := RawRow{
		keys:  make([]string, 0, len(headers)),
		cells: make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		if h == "" {
			continue
		}
		if _, dup := row.cells[h]; dup {
			continue
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row.keys = append(row.keys, h)
		row.cells[h] = v
	}
	return row
}

// RowOf builds a RawRow from alternating header, value arguments.
func RowOf(pairs ...string) RawRow {
	headers := make([]string, 0, len(pairs)/2)
	values := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		headers = append(headers, pairs[i])
		values = append(values, pairs[i+1])
	}
	return NewRawRow(headers, values)
}

// Get performs an exact header lookup.
func (r RawRow) Get(key string) (string, bool) {
	v, ok := r.cells[key]
	return v, ok
}

// Keys returns the headers in source order.
func (r RawRow) Keys() []string {
	return r.keys
}

// Len returns the number of columns.
func (r RawRow) Len() int {
	return len(r.keys)
}

// IsBlank reports whether every cell is empty after cleanup.
func (r RawRow) IsBlank() bool {
	for _, v := range r.cells {
		if CleanCell(v) != "" {
			return false
		}
	}
	return true
}
