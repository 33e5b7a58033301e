package tabular

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"clientportal/domain/daterange"
)

// DateParser converts a raw cell value into an instant. Implementations
// report false for values they cannot interpret. The parser is pluggable so
// alternate locale policies can replace the default without touching the
// filter itself.
type DateParser func(string) (time.Time, bool)

// FilterByDate retains the rows whose dateKey cell falls inside r, inclusive
// on both ends, preserving input order. The zero Range is an identity
// passthrough. Rows whose cell cannot be parsed are excluded from any
// range-filtered result. A nil parse falls back to ParseCellDate.
func FilterByDate(rows []Row, dateKey string, r daterange.Range, parse DateParser) []Row {
	if r.IsZero() {
		return rows
	}
	if parse == nil {
		parse = ParseCellDate
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		t, ok := parse(row[dateKey])
		if ok && r.Contains(t) {
			out = append(out, row)
		}
	}
	return out
}

// Layouts tried for direct parsing, most specific first.
var cellDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

// ParseCellDate is the default DateParser. It tries the ISO-style layouts
// first, then slash-delimited numeric dates. Two-digit years mean 2000+YY.
// Day/month order is decided by a heuristic: only when the first group
// exceeds 12 is the value read day-first, otherwise month-first. This is
// knowingly lossy for genuinely ambiguous inputs — "03/04/2024" parses as
// March 4 even where April 3 was meant.
func ParseCellDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range cellDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return parseSlashDate(s)
}

func parseSlashDate(s string) (time.Time, bool) {
	m := slashDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	month, day := a, b
	if a > 12 {
		month, day = b, a
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2); reject it.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}
