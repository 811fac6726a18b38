package pricing

import (
	"testing"

	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatMiles(t *testing.T) {
	tests := map[string]string{
		"":        "0",
		"abc":     "0",
		"500":     "500",
		"1000":    "1.000",
		"35000":   "35.000",
		"1250000": "1.250.000",
		"9999.9":  "9.999",
		"-12000":  "-12.000",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatMiles(in), in)
	}
}

func TestDescribe(t *testing.T) {
	cfg := model.BackendConfig{
		Programs:   []model.Program{{ID: 2, Name: "Smiles"}},
		Currencies: []model.Currency{{ID: 3, Code: "USD"}},
	}

	tests := []struct {
		name string
		want string
		row  model.PriceRow
	}{
		{
			name: "known references with tax",
			row:  model.PriceRow{Miles: "120000", ProgramID: "2", CurrencyID: "3", Tax: "55.30"},
			want: "120.000 Smiles + USD 55.30",
		},
		{
			name: "zero tax is omitted",
			row:  model.PriceRow{Miles: "80000", ProgramID: "2", CurrencyID: "3", Tax: "0"},
			want: "80.000 Smiles",
		},
		{
			name: "unknown references fall back",
			row:  model.PriceRow{Miles: "10000", ProgramID: "9", CurrencyID: "", Tax: "12"},
			want: "10.000 Prog + R$ 12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.row, cfg))
		})
	}
}
