// Package stats computes the dashboard rankings over saved offers.
package stats

import (
	"sort"

	"github.com/Veraticus/offer-desk/internal/model"
)

// TopN is the length of every ranking.
const TopN = 5

// Count is one ranked value.
type Count struct {
	Name  string
	Count int
}

// Summary holds the dashboard numbers.
type Summary struct {
	TopRoutes       []Count
	TopOperators    []Count
	TopOrigins      []Count
	TopDestinations []Count
	Total           int
}

// Share returns count as a percentage of the total, for bar widths.
func (s Summary) Share(count int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

// TopRoute returns the most frequent route, or "-" without data.
func (s Summary) TopRoute() string {
	return firstName(s.TopRoutes)
}

// TopOperator returns the most frequent airline, or "-" without data.
func (s Summary) TopOperator() string {
	return firstName(s.TopOperators)
}

func firstName(counts []Count) string {
	if len(counts) == 0 {
		return "-"
	}
	return counts[0].Name
}

// Summarize ranks routes, airlines, origins and destinations by how many
// offers use them. Ties keep the order in which values were first seen.
// Offers without an airline are not counted as airlines.
func Summarize(records []model.OfferRecord) Summary {
	routes := newTally()
	operators := newTally()
	origins := newTally()
	destinations := newTally()

	for _, r := range records {
		routes.add(r.Route())
		if r.Operator != "" {
			operators.add(r.Operator)
		}
		if r.Origin != "" {
			origins.add(r.Origin)
		}
		if r.Destination != "" {
			destinations.add(r.Destination)
		}
	}

	return Summary{
		Total:           len(records),
		TopRoutes:       routes.top(TopN),
		TopOperators:    operators.top(TopN),
		TopOrigins:      origins.top(TopN),
		TopDestinations: destinations.top(TopN),
	}
}

type tally struct {
	index  map[string]int
	counts []Count
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(name string) {
	if i, ok := t.index[name]; ok {
		t.counts[i].Count++
		return
	}
	t.index[name] = len(t.counts)
	t.counts = append(t.counts, Count{Name: name, Count: 1})
}

func (t *tally) top(n int) []Count {
	out := append([]Count{}, t.counts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
