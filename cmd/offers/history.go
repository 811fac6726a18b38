package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/offer-desk/internal/cli"
	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/history"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"offers"},
		Short:   "Browse saved offers",
		Long: `List, search, export and delete the offers saved on the backend, and fetch
their generated images.`,
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyDeleteCmd())
	cmd.AddCommand(historyImageCmd())
	cmd.AddCommand(historyExportCmd())

	return cmd
}

// loadHistory opens a session and loads every saved offer, newest first.
func loadHistory(cmd *cobra.Command) (*session, *history.View, error) {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	view := history.NewView(sess.client)
	if err := view.Load(cmd.Context()); err != nil {
		sess.Close()
		return nil, nil, err
	}
	return sess, view, nil
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved offers, newest first",
		Long: `List saved offers, newest first. --search keeps offers whose origin,
destination or operator contains the term, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	cmd.Flags().StringP("search", "s", "", "filter by origin, destination or operator")

	return cmd
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	sess, view, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	search, _ := cmd.Flags().GetString("search")
	view.SetFilter(search)
	records := view.Visible()

	if len(records) == 0 {
		if search != "" {
			fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("Nenhuma oferta encontrada para %q.", search)))
			return nil
		}
		fmt.Fprintln(out, cli.InfoStyle.Render("Nenhuma oferta cadastrada ainda."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Ofertas (%d de %d)", len(records), len(view.All()))))

	ref := view.Reference()
	t := newTable(out, "ID", "Criada", "Rota", "Operadora", "Classe", "Datas", "Preços")
	for _, r := range records {
		t.Row(r.ID, createdLabel(r), routeLabel(r), dash(r.Operator), r.FlightType, dash(r.Dates1), dash(history.DescribePrices(r.Prices1, ref)))
	}
	return t.Flush()
}

func createdLabel(r model.OfferRecord) string {
	if t, ok := r.Created(); ok {
		return t.Format("02/01/2006 15:04")
	}
	return dash(r.CreatedAt)
}

func routeLabel(r model.OfferRecord) string {
	route := r.Route()
	if r.Origin2 != "" || r.Destination2 != "" {
		route += fmt.Sprintf(" / %s → %s", r.Origin2, r.Destination2)
	}
	return route
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func historyDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <offer-id>",
		Short: "Delete a saved offer",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDelete,
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := parseID(args[0], "ID da oferta")
	if err != nil {
		return err
	}

	sess, view, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	record, ok := view.Find(id)
	if !ok {
		return common.NewUserError(fmt.Sprintf("Oferta #%d não encontrada.", id), fmt.Errorf("offer %d: %w", id, common.ErrNotFound))
	}

	if force, _ := cmd.Flags().GetBool("force"); !force {
		fmt.Fprintf(out, "%s  %s  %s\n", routeLabel(record), dash(record.Operator), dash(record.Dates1))
		confirmed, err := cli.NewPrompter(cmd.InOrStdin(), out).Confirm(ctx, fmt.Sprintf("Excluir a oferta #%d?", id))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Operação cancelada.")
			return nil
		}
	}

	if err := view.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Oferta #%d excluída.", id)))
	return nil
}

func historyImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <offer-id>",
		Short: "Download the generated image of an offer",
		Long: `Download the image the backend renders for an offer. The file is named
oferta_<id>.png unless --output is given. --url only prints the address.`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryImage,
	}

	cmd.Flags().StringP("output", "o", "", "destination file (default: oferta_<id>.png)")
	cmd.Flags().Bool("url", false, "print the image address instead of downloading")

	return cmd
}

func runHistoryImage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := parseID(args[0], "ID da oferta")
	if err != nil {
		return err
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if onlyURL, _ := cmd.Flags().GetBool("url"); onlyURL {
		fmt.Fprintln(out, sess.client.ImageURL(id))
		return nil
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = history.ImageFileName(id)
	}

	n, err := history.SaveImage(ctx, sess.client, id, path, func(size int64) io.Writer {
		return cli.NewDownloadBar(cmd.ErrOrStderr(), size, history.ImageFileName(id))
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imagem salva em %s (%d bytes)", path, n)))
	return nil
}

func historyExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved offers as CSV",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExport,
	}

	cmd.Flags().StringP("output", "o", "", "destination file (default: stdout)")
	cmd.Flags().StringP("search", "s", "", "export only offers matching the term")

	return cmd
}

func runHistoryExport(cmd *cobra.Command, _ []string) (err error) {
	sess, view, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	search, _ := cmd.Flags().GetString("search")
	view.SetFilter(search)
	records := view.Visible()

	w := cmd.OutOrStdout()
	path, _ := cmd.Flags().GetString("output")
	if path != "" {
		f, err := os.Create(path) //nolint:gosec // path chosen by the operator
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		w = f
	}

	if err := history.ExportCSV(w, records, view.Reference()); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("%d oferta(s) exportada(s) para %s", len(records), path)))
	}
	return nil
}
