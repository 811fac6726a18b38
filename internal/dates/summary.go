package dates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/offer-desk/internal/model"
)

// MonthAbbreviations are the Portuguese month labels used in summaries.
var MonthAbbreviations = [12]string{"JAN", "FEV", "MAR", "ABR", "MAI", "JUN", "JUL", "AGO", "SET", "OUT", "NOV", "DEZ"}

// RenderSummary renders a selection as one line per month, for example
// "MAI: 15(2), 20(1)". Days are grouped by month label, so the same month
// of different years shares a line. Seat counts are shown only when
// ShowSeats is set.
// The summary is for display and export; the structured list stays
// authoritative.
func RenderSummary(state model.DateSelection) string {
	entries := make([]model.DateEntry, len(state.List))
	copy(entries, state.List)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	type group struct {
		label string
		days  []string
	}
	var groups []*group
	byLabel := make(map[string]*group)

	for _, entry := range entries {
		t, ok := entry.Time()
		if !ok {
			continue
		}

		label := MonthAbbreviations[t.Month()-1]
		g, exists := byLabel[label]
		if !exists {
			g = &group{label: label}
			byLabel[label] = g
			groups = append(groups, g)
		}

		if state.ShowSeats {
			g.days = append(g.days, fmt.Sprintf("%d(%d)", t.Day(), entry.Seats))
		} else {
			g.days = append(g.days, fmt.Sprintf("%d", t.Day()))
		}
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("%s: %s", g.label, strings.Join(g.days, ", ")))
	}
	return strings.Join(lines, "\n")
}
