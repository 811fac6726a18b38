package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/dates"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/spf13/cobra"
)

func draftDatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Edit the travel dates of a route group",
		Long: `Edit the travel dates of a route group. Every date carries a seat count;
"toggle-seats" switches whether the counts are printed on the offer.`,
	}

	for _, sub := range []*cobra.Command{
		datesPickCmd(),
		datesImportCmd(),
		datesAddCmd(),
		datesSeatsCmd(),
		datesRemoveCmd(),
		datesClearCmd(),
		datesToggleSeatsCmd(),
	} {
		addOptionFlag(sub)
		cmd.AddCommand(sub)
	}

	return cmd
}

// editDates runs edit against the route group chosen by --option and prints
// the resulting date label. A --seats flag, where a command has one, sets
// the seat count of dates that arrive without their own.
func editDates(cmd *cobra.Command, edit func(ctrl *draft.Controller, opt model.Option) error) error {
	opt, err := optionFlag(cmd)
	if err != nil {
		return err
	}

	seats := 0
	if f := cmd.Flags().Lookup("seats"); f != nil && f.Changed {
		if seats, err = cmd.Flags().GetInt("seats"); err != nil || seats < 1 {
			return common.NewUserError(fmt.Sprintf("Assentos inválidos: %s", f.Value), common.ErrInvalidDraft)
		}
	}

	return editDraft(cmd, func(ctrl *draft.Controller) error {
		if seats > 0 {
			if err := ctrl.SetDefaultSeats(opt, seats); err != nil {
				return err
			}
		}
		if err := edit(ctrl, opt); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opção %d: %s\n", opt, dateSummary(ctrl, opt))
		return nil
	})
}

// dateSummary renders a route group's dates the way the offer prints them.
func dateSummary(ctrl *draft.Controller, opt model.Option) string {
	sel, err := ctrl.DateSelection(opt)
	if err != nil {
		return "-"
	}
	return dash(strings.ReplaceAll(dates.RenderSummary(sel), "\n", " | "))
}

func datesPickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick <YYYY-MM> [day...]",
		Short: "Set the calendar-picked days of one month",
		Long: `Replace the days picked on the calendar for one month with the given days.
Dates added by import or by hand are kept. With no days the month's calendar
picks are cleared.`,
		Example: "  offers draft dates pick 2026-05 3 10 17 --option 1",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := dates.ParseMonth(args[0])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Mês inválido: %q (use AAAA-MM)", args[0]), err)
			}
			picked, err := pickedDays(month, args[1:])
			if err != nil {
				return err
			}

			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				return ctrl.ApplyCalendar(opt, picked, month)
			})
		},
	}
	cmd.Flags().Int("seats", 0, "seats for newly picked days (default dates.default_seats)")
	return cmd
}

// pickedDays turns day-of-month arguments into dates inside month.
func pickedDays(month dates.Range, days []string) ([]time.Time, error) {
	picked := make([]time.Time, 0, len(days))
	for _, raw := range days {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 1 || day > month.End.Day() {
			return nil, common.NewUserError(fmt.Sprintf("Dia inválido para %s: %q", month.Start.Format("01/2006"), raw), common.ErrInvalidDraft)
		}
		picked = append(picked, month.Start.AddDate(0, 0, day-1))
	}
	return picked, nil
}

func datesImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import \"DD/MM/YYYY seats\" lines",
		Long: `Import dates from text, one "DD/MM/YYYY seats" per line. Separate the seat count
with a tab or at least two spaces, as a spreadsheet paste does. Lines that do not
hold a valid date are skipped; existing dates get the imported seat count.
Reads standard input when the file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				n, err := ctrl.ImportDates(opt, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d data(s) importada(s).\n", n)
				return nil
			})
		},
	}
	cmd.Flags().Int("seats", 0, "seats for lines without a count (default dates.default_seats)")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	lines, err := cli.NewLineReader(r).ReadAll(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to read dates: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

func datesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <date> [seats]",
		Short: "Add one date",
		Long:  `Add one date (YYYY-MM-DD or DD/MM/YYYY). Seats default to dates.default_seats.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[0])
			if err != nil {
				return err
			}

			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				seats := ctrl.DefaultSeats(opt)
				if len(args) == 2 {
					seats = dates.ParseSeats(args[1])
				}
				return ctrl.AddDate(opt, date, seats)
			})
		},
	}
}

func datesSeatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seats <date> <seats>",
		Short: "Change the seat count of a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iso, err := isoDate(args[0])
			if err != nil {
				return err
			}

			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				return ctrl.UpdateSeatsText(opt, iso, args[1])
			})
		},
	}
}

func datesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date...>",
		Short: "Remove dates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isos := make([]string, 0, len(args))
			for _, arg := range args {
				iso, err := isoDate(arg)
				if err != nil {
					return err
				}
				isos = append(isos, iso)
			}

			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				for _, iso := range isos {
					if err := ctrl.RemoveDate(opt, iso); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func datesClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				return ctrl.ClearDates(opt)
			})
		},
	}
}

func datesToggleSeatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-seats",
		Short: "Show or hide seat counts on the offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editDates(cmd, func(ctrl *draft.Controller, opt model.Option) error {
				return ctrl.ToggleShowSeats(opt)
			})
		},
	}
}
