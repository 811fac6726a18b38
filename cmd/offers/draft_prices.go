package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/spf13/cobra"
)

func draftPricesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Edit the price rows of a route group",
		Long: `Edit the price rows of a route group. A row is a mileage amount in a program
plus an optional tax in a currency, e.g. "120000 Smiles 55.30 USD".`,
	}

	for _, sub := range []*cobra.Command{
		pricesListCmd(),
		pricesAddCmd(),
		pricesSetCmd(),
		pricesUpdateCmd(),
		pricesRemoveCmd(),
	} {
		addOptionFlag(sub)
		cmd.AddCommand(sub)
	}

	return cmd
}

// editPrices runs edit against the route group chosen by --option and prints
// the resulting rows.
func editPrices(cmd *cobra.Command, edit func(ctrl *draft.Controller, opt model.Option) error) error {
	opt, err := optionFlag(cmd)
	if err != nil {
		return err
	}

	return editDraft(cmd, func(ctrl *draft.Controller) error {
		if err := edit(ctrl, opt); err != nil {
			return err
		}
		return printPrices(cmd, ctrl, opt)
	})
}

func printPrices(cmd *cobra.Command, ctrl *draft.Controller, opt model.Option) error {
	rows, err := ctrl.PriceRows(opt)
	if err != nil {
		return err
	}

	ref := ctrl.Reference()
	t := newTable(cmd.OutOrStdout(), "ID", fmt.Sprintf("Preços (opção %d)", opt))
	for _, row := range rows {
		t.Row(row.ID, dash(pricing.Describe(row, ref)))
	}
	return t.Flush()
}

func pricesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List price rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editPrices(cmd, func(*draft.Controller, model.Option) error { return nil })
		},
	}
}

func pricesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [miles program [tax [currency]]]",
		Short: "Append a price row",
		Long: `Append a price row, optionally filled in one go. Programs and currencies
may be given by name or id.`,
		Example: "  offers draft prices add 120000 Smiles 55,30 USD",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrices(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				row, err := ctrl.AddPriceRow(opt)
				if err != nil || len(args) == 0 {
					return err
				}
				return fillPrice(ctrl, opt, row.ID.String(), args)
			})
		},
	}
}

func pricesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <row-id> <miles> <program> [tax [currency]]",
		Short:   "Fill in a whole price row",
		Example: "  offers draft prices set 3f2a… 80000 Latam 120 BRL\n  offers draft prices set 1 90000 Smiles Diamante 10 USD",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrices(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				id, err := findRow(ctrl, opt, args[0])
				if err != nil {
					return err
				}
				return fillPrice(ctrl, opt, id, args[1:])
			})
		},
	}
}

func fillPrice(ctrl *draft.Controller, opt model.Option, id string, args []string) error {
	values, err := pricing.ParseInput(strings.Join(args, " "), ctrl.Reference())
	if err != nil {
		return err
	}
	for _, field := range []model.PriceField{model.FieldMiles, model.FieldProgram, model.FieldTax, model.FieldCurrency} {
		value, ok := values[field]
		if !ok {
			continue
		}
		if err := ctrl.UpdatePrice(opt, id, field, value); err != nil {
			return err
		}
	}
	return nil
}

func pricesUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <row-id> <field> <value>",
		Short: "Change one column of a price row",
		Long: `Change one column of a price row. Fields: miles, program, tax, currency.
Programs and currencies may be given by name or id.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := model.ParsePriceField(args[1])
			if !ok {
				return common.NewUserError(fmt.Sprintf("Coluna desconhecida: %q (use miles, program, tax ou currency)", args[1]), common.ErrUnknownField)
			}

			return editPrices(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				id, err := findRow(ctrl, opt, args[0])
				if err != nil {
					return err
				}

				value := args[2]
				switch field {
				case model.FieldProgram:
					if resolved, ok := pricing.ResolveProgram(value, ctrl.Reference()); ok {
						value = resolved
					} else {
						return common.NewUserError("Programa desconhecido: "+value, common.ErrInvalidDraft)
					}
				case model.FieldCurrency:
					if resolved, ok := pricing.ResolveCurrency(value, ctrl.Reference()); ok {
						value = resolved
					} else {
						return common.NewUserError("Moeda desconhecida: "+value, common.ErrInvalidDraft)
					}
				}
				return ctrl.UpdatePrice(opt, id, field, value)
			})
		},
	}
}

func pricesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <row-id>",
		Short: "Remove a price row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPrices(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				id, err := findRow(ctrl, opt, args[0])
				if err != nil {
					return err
				}
				return ctrl.RemovePriceRow(opt, id)
			})
		},
	}
}

// findRow resolves a row id or an unambiguous prefix of one.
func findRow(ctrl *draft.Controller, opt model.Option, ref string) (string, error) {
	rows, err := ctrl.PriceRows(opt)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, row := range rows {
		id := row.ID.String()
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return "", common.NewUserError(fmt.Sprintf("Linha ambígua: %q", ref), common.ErrNotFound)
	}
	return "", common.NewUserError(fmt.Sprintf("Linha de preço não encontrada: %q", ref), common.ErrNotFound)
}
