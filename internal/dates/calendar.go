package dates

import (
	"time"

	"github.com/Veraticus/offer-desk/internal/model"
)

// Range is an inclusive span of calendar days, typically the month a
// calendar is showing.
type Range struct {
	Start time.Time
	End   time.Time
}

// MonthRange returns the range covering a whole month.
func MonthRange(year int, month time.Month) Range {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// ParseMonth parses "YYYY-MM" into its month range.
func ParseMonth(value string) (Range, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return Range{}, err
	}
	return MonthRange(t.Year(), t.Month()), nil
}

// Contains reports whether the day of t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(truncateDay(r.Start)) && !day.After(truncateDay(r.End))
}

// ContainsISO is Contains for a YYYY-MM-DD string. Malformed dates are
// never contained.
func (r Range) ContainsISO(iso string) bool {
	t, err := time.Parse(model.ISODateLayout, iso)
	if err != nil {
		return false
	}
	return r.Contains(t)
}

// Days lists every day in the range.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := truncateDay(r.Start); !d.After(truncateDay(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Picked returns the selected dates that fall inside the range.
func (s *Selection) Picked(r Range) []time.Time {
	var picked []time.Time
	for _, entry := range s.state.List {
		t, ok := entry.Time()
		if ok && r.Contains(t) {
			picked = append(picked, t)
		}
	}
	return picked
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
