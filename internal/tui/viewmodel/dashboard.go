package viewmodel

import (
	"strconv"

	"github.com/Veraticus/offer-desk/internal/stats"
)

// DashboardView is the display data of the dashboard tab.
type DashboardView struct {
	Cards    []Card
	Rankings []Ranking
}

// Card is one headline number.
type Card struct {
	Label string
	Value string
}

// Ranking is a titled list of bars.
type Ranking struct {
	Title string
	Bars  []Bar
}

// Bar is one ranked value with its share of all offers.
type Bar struct {
	Name    string
	Count   int
	Percent float64
}

// Ratio returns Percent as a fraction for progress bars.
func (b Bar) Ratio() float64 {
	return b.Percent / 100
}

// NewDashboardView builds the dashboard from a summary.
func NewDashboardView(s stats.Summary) DashboardView {
	return DashboardView{
		Cards: []Card{
			{Label: "Total de ofertas", Value: strconv.Itoa(s.Total)},
			{Label: "Rota mais comum", Value: s.TopRoute()},
			{Label: "Cia mais comum", Value: s.TopOperator()},
		},
		Rankings: []Ranking{
			newRanking("Rotas mais buscadas", s.TopRoutes, s),
			newRanking("Companhias", s.TopOperators, s),
			newRanking("Origens", s.TopOrigins, s),
			newRanking("Destinos", s.TopDestinations, s),
		},
	}
}

func newRanking(title string, counts []stats.Count, s stats.Summary) Ranking {
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, Bar{Name: c.Name, Count: c.Count, Percent: s.Share(c.Count)})
	}
	return Ranking{Title: title, Bars: bars}
}

// IsEmpty reports whether there is nothing to rank.
func (d DashboardView) IsEmpty() bool {
	for _, r := range d.Rankings {
		if len(r.Bars) > 0 {
			return false
		}
	}
	return true
}
