package tabular

// Row represents one data record of a sheet as column-name to cell-value pairs
type Row map[string]string

// Sheet represents a decoded tabular document
type Sheet struct {
	Headers []string `json:"headers"` // Column headers in source order
	Rows    []Row    `json:"rows"`    // Data rows in source order
}

// IsEmpty checks if the sheet holds no data rows
func (s Sheet) IsEmpty() bool {
	return len(s.Rows) == 0
}

// Clone returns a deep copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
