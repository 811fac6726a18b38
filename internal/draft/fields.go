package draft

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
)

// Field names a scalar field of the draft. Values match the JSON names.
type Field string

// Editable draft fields.
const (
	FieldOrigin       Field = "origin"
	FieldDestination  Field = "destination"
	FieldOperator     Field = "operator"
	FieldFlightType   Field = "flight_type"
	FieldSearchDate   Field = "search_date"
	FieldTemplate     Field = "selected_bg"
	FieldOrigin2      Field = "origin_2"
	FieldDestination2 Field = "destination_2"
)

var fieldAliases = map[string]Field{
	"origin":        FieldOrigin,
	"destination":   FieldDestination,
	"operator":      FieldOperator,
	"airline":       FieldOperator,
	"flight_type":   FieldFlightType,
	"class":         FieldFlightType,
	"search_date":   FieldSearchDate,
	"selected_bg":   FieldTemplate,
	"template":      FieldTemplate,
	"origin_2":      FieldOrigin2,
	"destination_2": FieldDestination2,
}

// ParseField maps a user-supplied name to a Field.
func ParseField(name string) (Field, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if f, ok := fieldAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (valid: %s)", common.ErrUnknownField, name, strings.Join(FieldNames(), ", "))
}

// FieldNames lists the canonical field names.
func FieldNames() []string {
	seen := make(map[Field]bool)
	names := make([]string, 0, len(fieldAliases))
	for _, f := range fieldAliases {
		if !seen[f] {
			seen[f] = true
			names = append(names, string(f))
		}
	}
	sort.Strings(names)
	return names
}

// airport codes are stored upper case, as the form displays them.
func setField(d *model.OfferDraft, field Field, value string) error {
	switch field {
	case FieldOrigin:
		d.Origin = airportCode(value)
	case FieldDestination:
		d.Destination = airportCode(value)
	case FieldOperator:
		d.Operator = value
	case FieldFlightType:
		d.FlightType = value
	case FieldSearchDate:
		d.SearchDate = strings.TrimSpace(value)
	case FieldTemplate:
		d.SelectedBG = value
	case FieldOrigin2:
		d.Origin2 = airportCode(value)
	case FieldDestination2:
		d.Destination2 = airportCode(value)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownField, field)
	}
	return nil
}

func airportCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// FieldValue returns the current value of a scalar field.
func FieldValue(d model.OfferDraft, field Field) string {
	switch field {
	case FieldOrigin:
		return d.Origin
	case FieldDestination:
		return d.Destination
	case FieldOperator:
		return d.Operator
	case FieldFlightType:
		return d.FlightType
	case FieldSearchDate:
		return d.SearchDate
	case FieldTemplate:
		return d.SelectedBG
	case FieldOrigin2:
		return d.Origin2
	case FieldDestination2:
		return d.Destination2
	default:
		return ""
	}
}
