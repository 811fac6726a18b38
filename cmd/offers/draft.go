package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/spf13/cobra"
)

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Edit the offer draft",
		Long: `Edit the offer draft kept in the local cache. The same draft is shown in
"offers tui", so edits made here appear there and the other way around.

An offer has a primary route group (option 1) and an optional alternate one
(option 2). Date and price commands take --option to pick the group.`,
	}

	cmd.AddCommand(draftShowCmd())
	cmd.AddCommand(draftSetCmd())
	cmd.AddCommand(draftSubmitCmd())
	cmd.AddCommand(draftDiscardCmd())
	cmd.AddCommand(draftDatesCmd())
	cmd.AddCommand(draftPricesCmd())

	return cmd
}

func draftShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editDraft(cmd, func(ctrl *draft.Controller) error {
				printDraft(cmd.OutOrStdout(), ctrl)
				return nil
			})
		},
	}
}

func printDraft(out io.Writer, ctrl *draft.Controller) {
	d := ctrl.Draft()
	ref := ctrl.Reference()

	fmt.Fprintln(out, cli.FormatTitle("Rascunho"))
	for _, f := range []draft.Field{draft.FieldOrigin, draft.FieldDestination, draft.FieldOperator, draft.FieldFlightType, draft.FieldSearchDate, draft.FieldTemplate} {
		fmt.Fprintf(out, "  %-14s %s\n", f, dash(draft.FieldValue(d, f)))
	}

	options := []model.Option{model.OptionPrimary}
	if ctrl.AlternateOpen() {
		options = append(options, model.OptionAlternate)
	}
	for _, opt := range options {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.StyleTitle(fmt.Sprintf("Opção %d", opt)))
		if opt == model.OptionAlternate {
			fmt.Fprintf(out, "  %-14s %s\n", draft.FieldOrigin2, dash(d.Origin2))
			fmt.Fprintf(out, "  %-14s %s\n", draft.FieldDestination2, dash(d.Destination2))
		}
		fmt.Fprintf(out, "  %-14s %s (%s)\n", "datas", dateSummary(ctrl, opt), ctrl.DateLabel(opt))

		rows, _ := ctrl.PriceRows(opt)
		for _, row := range rows {
			fmt.Fprintf(out, "  %-14s %s\n", "preço "+row.ID.String(), dash(pricing.Describe(row, ref)))
		}
	}

	if ctrl.Pending() {
		fmt.Fprintln(out, cli.SubtleStyle.Render("salvando…"))
	}
}

func draftSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set a draft field",
		Long: fmt.Sprintf(`Set one field of the draft. Airport codes are uppercased.

Fields: %s`, strings.Join(draft.FieldNames(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := draft.ParseField(args[0])
			if err != nil {
				return err
			}

			return editDraft(cmd, func(ctrl *draft.Controller) error {
				if err := ctrl.SetField(field, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", field, dash(draft.FieldValue(ctrl.Draft(), field)))
				return nil
			})
		},
	}
}

func draftSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Save the draft as a new offer",
		Long: `Validate the draft and send it to the backend, which renders the offer
image. On success the cached draft is cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editDraft(cmd, func(ctrl *draft.Controller) error {
				if err := ctrl.Submit(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Oferta salva com sucesso!"))
				return nil
			})
		},
	}
}

func draftDiscardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Throw the draft away",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if force, _ := cmd.Flags().GetBool("force"); !force {
				confirmed, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, "Descartar o rascunho?")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, "Operação cancelada.")
					return nil
				}
			}

			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			// Discarding only touches the local cache, so the backend is
			// never asked for its configuration.
			if err := sess.newController(nil).Discard(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Rascunho descartado."))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}
