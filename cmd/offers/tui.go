package main

import (
	"context"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/tui"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the full-screen interface",
		Long: `Open the full-screen interface: dashboard, offer history and the draft form
with its calendar. The draft is autosaved while you type.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	theme := sess.settings.Theme
	if name, _ := cmd.Flags().GetString("theme"); name != "" {
		theme = name
	}

	saves := &tui.SaveNotifier{}
	ctrl := sess.newController(saves.Notify)

	err = tui.Run(ctx,
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithHistory(history.NewView(sess.client)),
		tui.WithDraft(ctrl),
		tui.WithImages(sess.client),
		tui.WithSaveNotifier(saves),
		tui.WithTimeout(sess.settings.Timeout),
	)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sess.settings.Timeout)
	defer cancel()
	if closeErr := ctrl.Close(closeCtx); closeErr != nil {
		common.LogError(closeErr, "Failed to save draft", nil)
	}
	return err
}
