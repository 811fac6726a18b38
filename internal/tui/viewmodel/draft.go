package viewmodel

import (
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
)

// DraftSource is the part of the draft controller the form reads.
type DraftSource interface {
	Draft() model.OfferDraft
	Reference() model.BackendConfig
	AlternateOpen() bool
	DateLabel(opt model.Option) string
	PriceRows(opt model.Option) ([]model.PriceRow, error)
}

// FieldRow is one editable scalar field.
type FieldRow struct {
	Field   draft.Field
	Label   string
	Value   string
	Choices []string // set for fields picked from a list
}

// PriceLine is one price row of a route group.
type PriceLine struct {
	ID    string
	Text  string
	Row   model.PriceRow
	Blank bool
}

// OptionView is one route group of the form.
type OptionView struct {
	Title       string
	DateLabel   string
	DateSummary string
	Prices      []PriceLine
	Option      model.Option
}

// DraftView is the display data of the offer form.
type DraftView struct {
	Fields        []FieldRow
	Options       []OptionView
	AlternateOpen bool
}

var fieldLabels = map[draft.Field]string{
	draft.FieldOrigin:       "Origem",
	draft.FieldDestination:  "Destino",
	draft.FieldOperator:     "Companhia",
	draft.FieldFlightType:   "Classe",
	draft.FieldSearchDate:   "Data da pesquisa",
	draft.FieldTemplate:     "Template",
	draft.FieldOrigin2:      "Origem (opção 2)",
	draft.FieldDestination2: "Destino (opção 2)",
}

// FieldLabel returns the form caption of a field.
func FieldLabel(f draft.Field) string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// NewDraftView reads the form state from src.
func NewDraftView(src DraftSource) DraftView {
	d := src.Draft()
	ref := src.Reference()
	alternate := src.AlternateOpen()

	fields := []draft.Field{
		draft.FieldOrigin,
		draft.FieldDestination,
		draft.FieldOperator,
		draft.FieldFlightType,
		draft.FieldSearchDate,
		draft.FieldTemplate,
	}
	if alternate {
		fields = append(fields, draft.FieldOrigin2, draft.FieldDestination2)
	}

	v := DraftView{AlternateOpen: alternate}
	for _, f := range fields {
		row := FieldRow{Field: f, Label: FieldLabel(f), Value: draft.FieldValue(d, f)}
		switch f {
		case draft.FieldFlightType:
			row.Choices = model.FlightTypes
		case draft.FieldTemplate:
			row.Choices = ref.Templates
		}
		v.Fields = append(v.Fields, row)
	}

	opts := []model.Option{model.OptionPrimary}
	if alternate {
		opts = append(opts, model.OptionAlternate)
	}
	for _, opt := range opts {
		ov := OptionView{
			Option:    opt,
			Title:     "Opção 1",
			DateLabel: src.DateLabel(opt),
		}
		if opt == model.OptionAlternate {
			ov.Title = "Opção 2"
			ov.DateSummary = d.Dates2
		} else {
			ov.DateSummary = d.Dates1
		}

		rows, _ := src.PriceRows(opt)
		for _, r := range rows {
			line := PriceLine{ID: r.ID.String(), Row: r, Blank: r.IsBlank()}
			if line.Blank {
				line.Text = "(vazio)"
			} else {
				line.Text = pricing.Describe(r, ref)
			}
			ov.Prices = append(ov.Prices, line)
		}
		v.Options = append(v.Options, ov)
	}
	return v
}

// Cycle returns the choice after (step 1) or before (step -1) current.
// An unknown current value yields the first choice.
func Cycle(choices []string, current string, step int) string {
	if len(choices) == 0 {
		return current
	}
	for i, c := range choices {
		if c == current {
			return choices[(i+step+len(choices))%len(choices)]
		}
	}
	return choices[0]
}
