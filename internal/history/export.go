package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/pricing"
	"github.com/jszwec/csvutil"
)

// exportRow flattens an offer for CSV: prices become readable text.
type exportRow struct {
	Prices1Text string `csv:"prices_1"`
	Prices2Text string `csv:"prices_2"`
	model.OfferRecord
}

// ExportCSV writes offers as CSV with a header line.
func ExportCSV(w io.Writer, records []model.OfferRecord, ref model.BackendConfig) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	if len(records) == 0 {
		if err := enc.EncodeHeader(exportRow{}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, r := range records {
		row := exportRow{
			OfferRecord: r,
			Prices1Text: DescribePrices(r.Prices1, ref),
			Prices2Text: DescribePrices(r.Prices2, ref),
		}
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to write offer %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// DescribePrices renders price rows on one line, skipping blank rows.
func DescribePrices(rows []model.PriceRow, ref model.BackendConfig) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.IsBlank() {
			continue
		}
		parts = append(parts, pricing.Describe(row, ref))
	}
	return strings.Join(parts, "; ")
}

// ImageOpener streams a rendered offer image.
type ImageOpener interface {
	OpenImage(ctx context.Context, id int64) (io.ReadCloser, int64, error)
}

// ImageFileName is the default file name for an offer image.
func ImageFileName(id int64) string {
	return fmt.Sprintf("oferta_%d.png", id)
}

// SaveImage downloads an offer image into path. When progress is non-nil it
// is given the expected size (-1 if unknown) and receives a copy of the bytes.
func SaveImage(ctx context.Context, opener ImageOpener, id int64, path string, progress func(size int64) io.Writer) (int64, error) {
	body, size, err := opener.OpenImage(ctx, id)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	f, err := os.Create(path) //nolint:gosec // path chosen by the operator
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	var w io.Writer = f
	if progress != nil {
		w = io.MultiWriter(f, progress(size))
	}

	n, err := io.Copy(w, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return n, fmt.Errorf("failed to save image %d: %w", id, err)
	}
	return n, nil
}
