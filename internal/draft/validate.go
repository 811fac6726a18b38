package draft

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("flight_type", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.FlightTypes, fl.Field().String())
	})
	return v
}

// labels are the form captions shown in validation messages.
var labels = map[string]string{
	"Origin":       "Origem",
	"Destination":  "Destino",
	"Origin2":      "Origem Alt.",
	"Destination2": "Destino Alt.",
	"SearchDate":   "Data da busca",
	"FlightType":   "Classe",
}

// validateDraft checks the fields the backend needs before an offer can be
// created. It returns a user error wrapping common.ErrInvalidDraft.
func validateDraft(v *validator.Validate, d model.OfferDraft) error {
	err := v.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidDraft, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	msg := strings.Join(problems, "; ")
	return common.NewUserError(msg, fmt.Errorf("%w: %s", common.ErrInvalidDraft, msg))
}

func describeFieldError(fe validator.FieldError) string {
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " é obrigatório"
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", label, fe.Param())
	case "datetime":
		return label + " deve estar no formato AAAA-MM-DD"
	case "flight_type":
		return fmt.Sprintf("%s deve ser uma de: %s", label, strings.Join(model.FlightTypes, ", "))
	default:
		return fmt.Sprintf("%s inválido (%s)", label, fe.Tag())
	}
}
