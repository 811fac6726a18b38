package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/config"
	"github.com/Veraticus/offer-desk/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "offers",
		Short: "✈️  Admin desk for airline award offers",
		Long: `offers: manage the award-ticket offers published by the backend.

Build an offer draft (route, travel dates with seats, mileage prices) that is
autosaved locally, submit it to generate the offer image, and browse the
history and statistics of everything already published.

Run "offers tui" for the full-screen interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/offers/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("base-url", "", "backend address (default: http://localhost:5000)")

	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyBaseURL, rootCmd.PersistentFlags().Lookup("base-url"))

	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, interrupts := cli.WatchInterrupts(context.Background(), os.Stderr, true)

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil || interrupts.Fired() {
		return
	}

	if !errors.Is(err, common.ErrUnauthorized) {
		common.LogDebug("Command failed", common.Fields{"error": err.Error()})
	}
	fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
	os.Exit(1)
}

func initConfig(cfgFile string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// OFFERS_API_BASE_URL overrides api.base_url, and so on.
	viper.SetEnvPrefix("OFFERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	if err := common.SetupLogger(os.Stderr, level, viper.GetString(config.KeyLogFormat)); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	cli.UseTheme(themes.GetTheme(viper.GetString(config.KeyTheme)))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "offers %s\n", version)
		},
	}
}
