package main

import (
	"fmt"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend",
		Long: `Log in with a backend account. The session cookie is kept in the local
cache so later commands stay logged in until "offers logout".`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().StringP("username", "u", "", "account name (prompted when empty)")
	cmd.Flags().String("password", "", "account password (prompted when empty)")

	return cmd
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	prompter := cli.NewPrompter(cmd.InOrStdin(), out)

	username, _ := cmd.Flags().GetString("username")
	if username == "" {
		if username, err = prompter.Ask(ctx, "Usuário", ""); err != nil {
			return err
		}
	}
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		if password, err = prompter.Secret(ctx, "Senha"); err != nil {
			return err
		}
	}

	if err := sess.client.Login(ctx, username, password); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Conectado como %s", username)))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the backend session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.client.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Sessão encerrada."))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who the saved session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			status, err := sess.client.CheckAuth(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !status.Authenticated {
				fmt.Fprintln(out, cli.FormatWarning("Não conectado. Use \"offers login\"."))
				return nil
			}
			fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s em %s", status.Username, sess.client.BaseURL())))
			return nil
		},
	}
}
