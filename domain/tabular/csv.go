package tabular

import (
	"sort"
	"strings"
)

// DecodeSheet converts raw CSV text into a Sheet. The first non-empty record
// is the header; every data record is padded or truncated to the header
// width. Decoding is best-effort and never fails: quoting follows RFC 4180
// (doubled quotes escape, commas and newlines inside quotes are literal) and
// an unterminated quote runs to the end of the input.
func DecodeSheet(text string) Sheet {
	records := splitCSV(text)
	if len(records) == 0 {
		return Sheet{}
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				row[h] = rec[j]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return Sheet{Headers: headers, Rows: rows}
}

// splitCSV scans the whole input into records of raw cells. Scanning the full
// text rather than pre-splitting lines keeps quoted newlines intact.
func splitCSV(text string) [][]string {
	var records [][]string
	var fields []string
	var cell strings.Builder
	inQuotes := false

	endField := func() {
		fields = append(fields, cleanCell(cell.String()))
		cell.Reset()
	}
	endRecord := func() {
		endField()
		// Records that are entirely empty (blank lines) are skipped.
		if len(fields) > 1 || fields[0] != "" {
			records = append(records, fields)
		}
		fields = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteString(`""`)
				i++
			} else {
				inQuotes = !inQuotes
				cell.WriteByte('"')
			}
		case c == ',' && !inQuotes:
			endField()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRecord()
		default:
			cell.WriteByte(c)
		}
	}
	endRecord()

	return records
}

// cleanCell trims whitespace around a raw cell, then strips surrounding
// quotes and collapses doubled quotes. Trimming happens before unquoting so
// whitespace inside a quoted cell survives untouched.
func cleanCell(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, `"`) {
		s = s[1:]
		s = strings.TrimSuffix(s, `"`)
		s = strings.ReplaceAll(s, `""`, `"`)
	}
	return s
}

// EncodeRows converts rows into CSV text. An empty input yields the empty
// string with no header line. When headerOrder is empty the header set is
// the first-seen union of keys across all rows (each row's keys visited in
// sorted order so output is deterministic). Missing keys become empty cells;
// lines are joined with \n and there is no trailing terminator.
func EncodeRows(rows []Row, headerOrder []string) string {
	if len(rows) == 0 {
		return ""
	}

	headers := headerOrder
	if len(headers) == 0 {
		headers = unionKeys(rows)
	}

	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCell(h))
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCell(row[h]))
		}
	}
	return b.String()
}

// EncodeSheet encodes a sheet using its own header order.
func EncodeSheet(s Sheet) string {
	return EncodeRows(s.Rows, s.Headers)
}

// unionKeys collects column names across heterogeneous rows in first-seen
// order, visiting rows in sequence order.
func unionKeys(rows []Row) []string {
	var headers []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	return headers
}

// escapeCell quotes a value only when it contains a comma, quote, or newline.
func escapeCell(v string) string {
	if strings.ContainsAny(v, "\",\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
