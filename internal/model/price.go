package model

// PriceField names an editable column of a PriceRow.
type PriceField string

const (
	FieldMiles    PriceField = "miles"
	FieldProgram  PriceField = "prog_id"
	FieldCurrency PriceField = "curr_id"
	FieldTax      PriceField = "tax"
)

// PriceRow is one payment option: miles in a loyalty program plus taxes.
type PriceRow struct {
	ID         FlexString `json:"id"`
	Miles      FlexString `json:"miles"`
	ProgramID  FlexString `json:"prog_id"`
	Tax        FlexString `json:"tax"`
	CurrencyID FlexString `json:"curr_id"`
}

// IsBlank reports whether no field other than the id has been filled in.
func (r PriceRow) IsBlank() bool {
	return r.Miles == "" && r.ProgramID == "" && r.Tax == "" && r.CurrencyID == ""
}

// ParsePriceField maps a user-supplied column name to a PriceField.
func ParsePriceField(name string) (PriceField, bool) {
	switch name {
	case "miles", "mileage":
		return FieldMiles, true
	case "prog_id", "program":
		return FieldProgram, true
	case "curr_id", "currency":
		return FieldCurrency, true
	case "tax", "taxes":
		return FieldTax, true
	default:
		return "", false
	}
}
