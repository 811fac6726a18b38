package model

import (
	"fmt"
	"time"
)

// OfferRecord is a saved offer as returned by GET /api/searches.
type OfferRecord struct {
	CreatedAt    string     `json:"created_at" csv:"created_at"`
	Origin       string     `json:"origin" csv:"origin"`
	Destination  string     `json:"destination" csv:"destination"`
	Operator     string     `json:"operator" csv:"operator"`
	FlightType   string     `json:"flight_type" csv:"flight_type"`
	SearchDate   string     `json:"search_date" csv:"search_date"`
	SelectedBG   string     `json:"selected_bg" csv:"template"`
	Dates1       string     `json:"dates_1" csv:"dates_1"`
	Dates2       string     `json:"dates_2" csv:"dates_2"`
	Origin2      string     `json:"origin_2" csv:"origin_2"`
	Destination2 string     `json:"destination_2" csv:"destination_2"`
	ImagePath    string     `json:"image_path" csv:"-"`
	Prices1      []PriceRow `json:"prices_1" csv:"-"`
	Prices2      []PriceRow `json:"prices_2" csv:"-"`
	ID           int64      `json:"id" csv:"id"`
}

// Route renders the primary route as "ORIGIN → DESTINATION".
func (r OfferRecord) Route() string {
	return fmt.Sprintf("%s → %s", r.Origin, r.Destination)
}

// Created parses CreatedAt. The backend writes Python isoformat timestamps
// without a zone, so several layouts are tried.
func (r OfferRecord) Created() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
