package main

import (
	"fmt"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/stats"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show offer statistics",
		Long: `Summarize every saved offer: the total count and the most frequent routes,
operators, origins and destinations.`,
		Aliases: []string{"stats"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			view := history.NewView(sess.client)
			if err := view.Load(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderDashboard(stats.Summarize(view.All())))
			return nil
		},
	}
}
