package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
)

// FormatInput renders a row as the one-line text the price editor
// starts from: "miles program tax currency".
func FormatInput(row model.PriceRow, ref model.BackendConfig) string {
	program, ok := ref.ProgramName(row.ProgramID)
	if !ok {
		program = row.ProgramID.String()
	}
	currency, ok := ref.CurrencyCode(row.CurrencyID)
	if !ok {
		currency = row.CurrencyID.String()
	}
	return strings.TrimSpace(strings.Join([]string{row.Miles.String(), program, row.Tax.String(), currency}, " "))
}

// ParseInput reads "miles program [tax [currency]]". Programs and
// currencies may be given by name or id; a comma decimal separator in the
// tax is accepted. A program name may span several words, optionally in
// quotes, so "80000 Smiles Diamante 10 USD" names the "Smiles Diamante"
// program.
func ParseInput(text string, ref model.BackendConfig) (map[model.PriceField]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return nil, common.NewUserError("Use: milhas programa [taxa [moeda]]",
			fmt.Errorf("%w: price input %q", common.ErrInvalidDraft, text))
	}

	values := map[model.PriceField]string{
		model.FieldMiles:    strings.ReplaceAll(tokens[0], ".", ""),
		model.FieldProgram:  "",
		model.FieldTax:      "",
		model.FieldCurrency: "",
	}

	program, rest, err := splitProgram(tokens[1:], ref)
	if err != nil {
		return nil, err
	}
	values[model.FieldProgram] = program

	if len(rest) > 0 {
		values[model.FieldTax] = strings.ReplaceAll(rest[0], ",", ".")
	}
	if len(rest) > 1 {
		currency, ok := ResolveCurrency(rest[1], ref)
		if !ok {
			return nil, common.NewUserError(fmt.Sprintf("Moeda desconhecida: %s", rest[1]),
				fmt.Errorf("%w: currency %q", common.ErrInvalidDraft, rest[1]))
		}
		values[model.FieldCurrency] = currency
	}
	return values, nil
}

// splitProgram takes the longest leading run of tokens that names a
// program and leaves at most tax and currency behind.
func splitProgram(tokens []string, ref model.BackendConfig) (string, []string, error) {
	for n := len(tokens); n >= 1; n-- {
		if len(tokens)-n > 2 {
			break
		}
		name := strings.Trim(strings.Join(tokens[:n], " "), `"'`)
		if id, ok := ResolveProgram(name, ref); ok {
			return id, tokens[n:], nil
		}
	}

	if len(tokens) > 3 {
		return "", nil, common.NewUserError("Use: milhas programa [taxa [moeda]]",
			fmt.Errorf("%w: no program in %q", common.ErrInvalidDraft, strings.Join(tokens, " ")))
	}
	n := 1
	for n < len(tokens) && !isAmount(tokens[n]) {
		n++
	}
	name := strings.Trim(strings.Join(tokens[:n], " "), `"'`)
	return "", nil, common.NewUserError(fmt.Sprintf("Programa desconhecido: %s", name),
		fmt.Errorf("%w: program %q", common.ErrInvalidDraft, name))
}

func isAmount(token string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	return err == nil
}

// ResolveProgram maps a program name or id to its id.
func ResolveProgram(token string, ref model.BackendConfig) (string, bool) {
	for _, p := range ref.Programs {
		if strings.EqualFold(p.Name, token) || strconv.FormatInt(p.ID, 10) == token {
			return strconv.FormatInt(p.ID, 10), true
		}
	}
	return "", false
}

// ResolveCurrency maps a currency code or id to its id.
func ResolveCurrency(token string, ref model.BackendConfig) (string, bool) {
	for _, c := range ref.Currencies {
		if strings.EqualFold(c.Code, token) || strconv.FormatInt(c.ID, 10) == token {
			return strconv.FormatInt(c.ID, 10), true
		}
	}
	return "", false
}
