package daterange

import (
	"time"
)

// Key identifies one of the named calendar-relative quick ranges
type Key string

const (
	KeyToday     Key = "today"
	KeyYesterday Key = "yesterday"
	KeyThisWeek  Key = "thisWeek"
	KeyLastWeek  Key = "lastWeek"
	KeyThisMonth Key = "thisMonth"
	KeyLastMonth Key = "lastMonth"
)

// Range is an inclusive interval of instants. The zero Range means
// "no range": callers treat it as "do not filter". Start <= End holds for
// every Range produced by this package.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero checks if the range is the "no range" sentinel
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls inside the range, inclusive on both ends
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Sentinel bounds used when one side of a custom range is unspecified.
var (
	sentinelMin = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.Local)
	sentinelMax = time.Date(2999, time.December, 31, 23, 59, 59, int(999*time.Millisecond), time.Local)
)

// QuickRange resolves a named quick range against the reference instant now.
// Weeks start on Monday; day boundaries sit at 00:00:00.000 and 23:59:59.999
// local time. Taking now as a parameter keeps the computation deterministic
// under test.
func QuickRange(key Key, now time.Time) (Range, bool) {
	switch key {
	case KeyToday:
		return Range{Start: startOfDay(now), End: endOfDay(now)}, true
	case KeyYesterday:
		y := now.AddDate(0, 0, -1)
		return Range{Start: startOfDay(y), End: endOfDay(y)}, true
	case KeyThisWeek:
		s := startOfWeek(now)
		return Range{Start: s, End: endOfDay(s.AddDate(0, 0, 6))}, true
	case KeyLastWeek:
		s := startOfWeek(now).AddDate(0, 0, -7)
		return Range{Start: s, End: endOfDay(s.AddDate(0, 0, 6))}, true
	case KeyThisMonth:
		return Range{Start: startOfMonth(now), End: endOfMonth(now)}, true
	case KeyLastMonth:
		s := startOfMonth(now).AddDate(0, -1, 0)
		return Range{Start: s, End: endOfMonth(s)}, true
	default:
		return Range{}, false
	}
}

// ClampRange builds a range from optional YYYY-MM-DD boundary strings.
// A present from anchors at 00:00:00.000, a present to at 23:59:59.999;
// the missing side falls back to a sentinel bound. Both sides absent, or
// either side unparseable, yields the zero Range and false — callers must
// treat that as "ignore the filter attempt", never as an error. Inverted
// bounds are swapped so Start <= End always holds.
func ClampRange(from, to string) (Range, bool) {
	if from == "" && to == "" {
		return Range{}, false
	}

	start := sentinelMin
	if from != "" {
		d, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return Range{}, false
		}
		start = startOfDay(d)
	}

	end := sentinelMax
	if to != "" {
		d, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return Range{}, false
		}
		end = endOfDay(d)
	}

	if start.After(end) {
		start, end = end, start
	}
	return Range{Start: start, End: end}, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// startOfWeek returns Monday 00:00:00.000 of t's week (Monday has index 0).
func startOfWeek(t time.Time) time.Time {
	day := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -day)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// endOfMonth exploits day-zero normalization of the following month.
func endOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return endOfDay(time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()))
}
