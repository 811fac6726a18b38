package testutil

import (
	"time"

	"github.com/Veraticus/offer-desk/internal/model"
)

// FixtureDay is the "today" fixtures are written against.
func FixtureDay() time.Time {
	return time.Date(2026, time.May, 9, 12, 0, 0, 0, time.UTC)
}

// FixtureReference is the reference data most tests run against.
func FixtureReference() model.BackendConfig {
	return model.BackendConfig{
		Templates:  []string{"azul.png", "ouro.png"},
		Programs:   []model.Program{{ID: 3, Name: "Smiles"}, {ID: 4, Name: "TudoAzul"}},
		Currencies: []model.Currency{{ID: 1, Code: "USD"}, {ID: 2, Code: "BRL"}},
	}
}

// FixtureOffers are two saved offers. Offer 8 is the newer one.
func FixtureOffers() []model.OfferRecord {
	return []model.OfferRecord{
		{
			ID:          7,
			CreatedAt:   "2026-05-01T10:00:00",
			Origin:      "GRU",
			Destination: "MIA",
			Operator:    "Latam",
			FlightType:  model.FlightTypeBusiness,
			Dates1:      "MAI: 10(2)",
			Prices1:     []model.PriceRow{{ID: "1", Miles: "120000", ProgramID: "3", Tax: "55.3", CurrencyID: "1"}},
			Prices2:     []model.PriceRow{},
		},
		{
			ID:          8,
			CreatedAt:   "2026-05-02T10:00:00",
			Origin:      "GIG",
			Destination: "LIS",
			Operator:    "TAP",
			FlightType:  model.FlightTypeBusiness,
			Prices1:     []model.PriceRow{},
			Prices2:     []model.PriceRow{},
		},
	}
}
