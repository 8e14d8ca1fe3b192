package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"mtdash/internal/stats"
)

const (
	summarySheet   = "Summary"
	directionSheet = "By Direction"
)

// XLSXExporter writes the summary report workbook.
type XLSXExporter struct {
	logger *slog.Logger
}

// NewXLSXExporter creates a new XLSX exporter
func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExporter{logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// XLSXFilename returns the timestamped download name for an XLSX report.
func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("translation_report_%s.xlsx", now.Format("20060102_150405"))
}

// Write builds a two-sheet workbook, summary metrics and the
// per-direction breakdown, and streams it.
func (e *XLSXExporter) Write(w io.Writer, summary stats.Summary, breakdown []stats.DirectionStats) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary sheet.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("export xlsx: rename sheet: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Translations", summary.Total},
		{"Completed", summary.Completed},
		{"Timed Out", summary.TimedOut},
		{"Completion Rate (%)", summary.CompletionRate},
		{"Timeout Rate (%)", summary.TimeoutRate},
		{"Avg Translation Score", summary.AvgScore},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(directionSheet); err != nil {
		return fmt.Errorf("export xlsx: add sheet: %w", err)
	}

	directionRows := [][]interface{}{
		{"Translation Direction", "Total", "Completed", "Timed Out", "Completion Rate (%)", "Timeout Rate (%)", "Avg Score"},
	}
	for _, d := range breakdown {
		directionRows = append(directionRows, []interface{}{
			d.Direction, d.Total, d.Completed, d.TimedOut, d.CompletionRate, d.TimeoutRate, d.AvgScore,
		})
	}
	if err := writeRows(f, directionSheet, directionRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export xlsx: write workbook: %w", err)
	}

	e.logger.Debug("xlsx export written",
		slog.Int("directions", len(breakdown)))
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export xlsx: write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
