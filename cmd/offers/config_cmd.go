package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage backend reference data",
		Long: `Show the templates, mileage programs and currencies the backend offers, and
add or remove programs and currencies.`,
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(referenceCmd("programs", "mileage program", "Programa",
		func(sess *session, cmd *cobra.Command, name string) error {
			return sess.client.AddProgram(cmd.Context(), name)
		},
		func(sess *session, cmd *cobra.Command, id int64) error {
			return sess.client.DeleteProgram(cmd.Context(), id)
		}))
	cmd.AddCommand(referenceCmd("currencies", "tax currency", "Moeda",
		func(sess *session, cmd *cobra.Command, code string) error {
			return sess.client.AddCurrency(cmd.Context(), strings.ToUpper(code))
		},
		func(sess *session, cmd *cobra.Command, id int64) error {
			return sess.client.DeleteCurrency(cmd.Context(), id)
		}))

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show templates, programs and currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			ref, err := sess.client.GetConfig(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatTitle("Templates"))
			if len(ref.Templates) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("nenhum"))
			}
			for _, name := range ref.Templates {
				fmt.Fprintln(out, "  "+name)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, cli.FormatTitle("Programas"))
			programs := newTable(out, "ID", "Nome")
			for _, p := range ref.Programs {
				programs.Row(p.ID, p.Name)
			}
			if err := programs.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, cli.FormatTitle("Moedas"))
			currencies := newTable(out, "ID", "Código")
			for _, c := range ref.Currencies {
				currencies.Row(c.ID, c.Code)
			}
			return currencies.Flush()
		},
	}
}

// referenceCmd builds the add/delete pair shared by programs and currencies.
func referenceCmd(
	use, noun, label string,
	add func(sess *session, cmd *cobra.Command, name string) error,
	remove func(sess *session, cmd *cobra.Command, id int64) error,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Add or delete a %s", noun),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Register a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("%s name must not be empty", noun)
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := add(sess, cmd, name); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s adicionado(a).", label, name)))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], label)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := remove(sess, cmd, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s #%d excluído(a).", label, id)))
			return nil
		},
	})

	return cmd
}
