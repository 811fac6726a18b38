package pricing

import (
	"strconv"
	"strings"

	"github.com/Veraticus/offer-desk/internal/model"
)

// Describe renders a row the way the history view lists prices, for example
// "120.000 Smiles + USD 55.30". Unknown references fall back to "Prog" and
// "R$".
func Describe(row model.PriceRow, cfg model.BackendConfig) string {
	program, ok := cfg.ProgramName(row.ProgramID)
	if !ok {
		program = "Prog"
	}
	currency, ok := cfg.CurrencyCode(row.CurrencyID)
	if !ok {
		currency = "R$"
	}

	text := FormatMiles(row.Miles.String()) + " " + program
	if tax := row.Tax.String(); tax != "" && tax != "0" {
		text += " + " + currency + " " + tax
	}
	return text
}

// FormatMiles groups thousands with dots. Non-numeric input renders as 0.
func FormatMiles(raw string) string {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "0"
	}

	digits := strconv.FormatInt(int64(value), 10)
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
