package viewmodel

import (
	"fmt"

	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/model"
)

// HistoryRow is one saved offer as listed in the history tab.
type HistoryRow struct {
	Route      string
	AltRoute   string
	Operator   string
	FlightType string
	Created    string
	Dates1     string
	Dates2     string
	Prices1    string
	Prices2    string
	ID         int64
}

// NewHistoryRows converts offers for display, keeping their order.
func NewHistoryRows(records []model.OfferRecord, ref model.BackendConfig) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for _, r := range records {
		row := HistoryRow{
			ID:         r.ID,
			Route:      r.Route(),
			Operator:   orDash(r.Operator),
			FlightType: orDash(r.FlightType),
			Created:    FormatCreated(r),
			Dates1:     orDash(r.Dates1),
			Dates2:     r.Dates2,
			Prices1:    orDash(history.DescribePrices(r.Prices1, ref)),
			Prices2:    history.DescribePrices(r.Prices2, ref),
		}
		if r.Origin2 != "" || r.Destination2 != "" {
			row.AltRoute = fmt.Sprintf("%s → %s", r.Origin2, r.Destination2)
		}
		rows = append(rows, row)
	}
	return rows
}

// HasAlternate reports whether the offer has a second route group.
func (r HistoryRow) HasAlternate() bool {
	return r.AltRoute != "" || r.Dates2 != "" || r.Prices2 != ""
}

// FormatCreated renders the creation time as DD/MM/YYYY HH:MM, or "-".
func FormatCreated(r model.OfferRecord) string {
	t, ok := r.Created()
	if !ok {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
