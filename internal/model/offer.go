package model

import "time"

// Flight classes offered by the offer form.
const (
	FlightTypeBusiness = "Executiva"
	FlightTypeEconomy  = "Econômica"
	FlightTypeFirst    = "Primeira Classe"
)

// FlightTypes lists the selectable flight classes in display order.
var FlightTypes = []string{FlightTypeBusiness, FlightTypeEconomy, FlightTypeFirst}

// Option identifies one of the two route groups of an offer.
type Option int

const (
	// OptionPrimary is the main route.
	OptionPrimary Option = 1
	// OptionAlternate is the optional second route.
	OptionAlternate Option = 2
)

// OfferDraft is the in-progress offer form. Its JSON shape is both the local
// cache format and the POST /api/searches payload.
type OfferDraft struct {
	Origin       string        `json:"origin" validate:"required,max=3"`
	Destination  string        `json:"destination" validate:"required,max=3"`
	Operator     string        `json:"operator"`
	FlightType   string        `json:"flight_type" validate:"flight_type"`
	SearchDate   string        `json:"search_date" validate:"omitempty,datetime=2006-01-02"`
	SelectedBG   string        `json:"selected_bg"`
	Dates1       string        `json:"dates_1"`
	Dates1Raw    DateSelection `json:"dates_1_raw"`
	Dates2       string        `json:"dates_2"`
	Dates2Raw    DateSelection `json:"dates_2_raw"`
	Origin2      string        `json:"origin_2" validate:"max=3"`
	Destination2 string        `json:"destination_2" validate:"max=3"`
	Prices1      []PriceRow    `json:"prices_1"`
	Prices2      []PriceRow    `json:"prices_2"`
}

// NewOfferDraft returns a draft with every field set to its default.
func NewOfferDraft(today time.Time) OfferDraft {
	return OfferDraft{
		FlightType: FlightTypeBusiness,
		SearchDate: today.Format(ISODateLayout),
		Dates1Raw:  NewDateSelection(),
		Dates2Raw:  NewDateSelection(),
		Prices1:    []PriceRow{},
		Prices2:    []PriceRow{},
	}
}

// HasAlternate reports whether any field of the second route group is filled.
func (d OfferDraft) HasAlternate() bool {
	return d.Origin2 != "" || d.Destination2 != "" || len(d.Prices2) > 0
}

// Dates returns the date selection of an option.
func (d OfferDraft) Dates(opt Option) DateSelection {
	if opt == OptionAlternate {
		return d.Dates2Raw
	}
	return d.Dates1Raw
}

// Prices returns the price rows of an option.
func (d OfferDraft) Prices(opt Option) []PriceRow {
	if opt == OptionAlternate {
		return d.Prices2
	}
	return d.Prices1
}

// Clone returns a deep copy of the draft.
func (d OfferDraft) Clone() OfferDraft {
	out := d
	out.Dates1Raw = d.Dates1Raw.Clone()
	out.Dates2Raw = d.Dates2Raw.Clone()
	out.Prices1 = append([]PriceRow{}, d.Prices1...)
	out.Prices2 = append([]PriceRow{}, d.Prices2...)
	return out
}
