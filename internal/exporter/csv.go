package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mtdash/internal/dataset"
)

// utf8BOM helps Excel recognize UTF-8, which matters for the arrow in
// direction labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes a table as CSV to a stream.
type CSVExporter struct {
	logger *slog.Logger
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// Filename returns the timestamped download name for a CSV export.
func Filename(now time.Time) string {
	return fmt.Sprintf("translation_results_%s.csv", now.Format("20060102_150405"))
}

// Write streams the table as CSV with a UTF-8 BOM. Source columns come
// first in header order, then the derived columns, so the download
// matches what the dashboard computed rather than the raw input.
func (e *CSVExporter) Write(w io.Writer, t *dataset.Table) error {
	if t == nil {
		return fmt.Errorf("export csv: no table")
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("export csv: write BOM: %w", err)
	}

	columns := ExportColumns(t)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("export csv: write header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range t.Records {
		rec := &t.Records[i]
		for j, col := range columns {
			row[j] = rec.Cell(col)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}

	e.logger.Debug("csv export written",
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(columns)))
	return nil
}

// ExportColumns returns the source columns followed by derived columns
// not already present in the source header.
func ExportColumns(t *dataset.Table) []string {
	columns := make([]string, 0, len(t.Columns)+3)
	columns = append(columns, t.Columns...)
	for _, derived := range []string{dataset.ColDirection, dataset.ColHour, dataset.ColDate} {
		if !t.HasColumn(derived) {
			columns = append(columns, derived)
		}
	}
	return columns
}
