package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"mtdash/internal/config"
	"mtdash/internal/dataset"
	"mtdash/internal/infrastructure"
	"mtdash/internal/stats"
)

// colIndex is the row-number column of the raw-row payload. When the
// source carries its own Index column that one is shown; otherwise a
// 1-based sequence is synthesized.
const colIndex = "Index"

// displayColumns is the preferred leading column order for raw-row
// payloads. Columns missing from the source are skipped; remaining
// source columns follow in header order.
var displayColumns = []string{
	"Original Text",
	dataset.ColFrom,
	dataset.ColTo,
	"AI Response",
	dataset.ColStatus,
	dataset.ColScore,
}

// DashboardService owns the current dataset source and answers every
// dashboard question from it. One dataset per process: an upload
// replaces the configured default file until the process restarts.
type DashboardService struct {
	config  *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	cache   *dataset.Cache

	mu         sync.RWMutex
	uploadName string
	uploadData []byte
}

// NewDashboardService creates a dashboard service backed by the load cache
func NewDashboardService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		config:  cfg,
		logger:  logger.With(slog.String("component", "dashboard_service")),
		metrics: metrics,
		cache:   dataset.NewCache(logger),
	}
}

// SourceName returns the name of the current dataset source.
func (s *DashboardService) SourceName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.uploadData != nil {
		return s.uploadName
	}
	return s.config.Data.DefaultFile
}

// HasData reports whether a dataset source is currently available.
func (s *DashboardService) HasData() bool {
	s.mu.RLock()
	upload := s.uploadData != nil
	s.mu.RUnlock()
	return upload || config.FileExists(s.config.Data.DefaultFile)
}

// Table resolves the current source into a preprocessed table.
func (s *DashboardService) Table(ctx context.Context) (*dataset.Table, error) {
	s.mu.RLock()
	name, data := s.uploadName, s.uploadData
	s.mu.RUnlock()

	if s.metrics != nil {
		s.metrics.DatasetLoads.Inc()
	}

	var (
		table *dataset.Table
		err   error
	)
	if data != nil {
		table, err = s.cache.LoadBytes(name, data)
	} else {
		path := s.config.Data.DefaultFile
		if !config.FileExists(path) {
			return nil, ErrNoDataLoaded
		}
		table, err = s.cache.LoadFile(path)
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoadFailures.Inc()
		}
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", s.SourceName()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	if s.metrics != nil {
		s.metrics.DatasetRows.Set(float64(table.Len()))
	}
	return table, nil
}

// SetUpload makes an uploaded CSV the current source. The bytes are
// parsed eagerly so a broken file is rejected without replacing the
// previous source.
func (s *DashboardService) SetUpload(ctx context.Context, name string, data []byte) (*dataset.Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	table, err := s.cache.LoadBytes(name, data)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoadFailures.Inc()
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	s.mu.Lock()
	s.uploadName = name
	s.uploadData = data
	s.mu.Unlock()

	// Entries for earlier sources are unreachable now; drop them. The
	// fresh upload reloads from its own bytes on the next request.
	s.cache.Invalidate()

	if s.metrics != nil {
		s.metrics.DatasetRows.Set(float64(table.Len()))
	}

	s.logger.InfoContext(ctx, "dataset replaced by upload",
		slog.String("filename", name),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))

	return table, nil
}

// FilteredTable resolves the current source and applies a filter.
func (s *DashboardService) FilteredTable(ctx context.Context, f dataset.Filter) (*dataset.Table, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Filter(f), nil
}

// DataInfo describes the full, unfiltered dataset.
type DataInfo struct {
	Source    string `json:"source"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

// SummaryPayload pairs filtered summary statistics with dataset info.
type SummaryPayload struct {
	stats.Summary
	Info DataInfo `json:"data_info"`
}

// Summary computes summary statistics over the filtered table. Dataset
// info always describes the full table so clients can bound their
// filter controls.
func (s *DashboardService) Summary(ctx context.Context, f dataset.Filter) (*SummaryPayload, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}

	info := DataInfo{
		Source:  s.SourceName(),
		Rows:    table.Len(),
		Columns: len(table.Columns),
	}
	if first, last, ok := table.DateSpan(); ok {
		info.FirstDate, info.LastDate = first, last
	}

	return &SummaryPayload{
		Summary: stats.Summarize(table.Filter(f)),
		Info:    info,
	}, nil
}

// DirectionsPayload carries a per-direction breakdown plus the full
// list of directions for filter dropdowns.
type DirectionsPayload struct {
	Directions []string               `json:"directions"`
	Breakdown  []stats.DirectionStats `json:"breakdown"`
}

// Directions computes the per-direction breakdown over the filtered
// table. The direction list always comes from the full table.
func (s *DashboardService) Directions(ctx context.Context, f dataset.Filter) (*DirectionsPayload, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return &DirectionsPayload{
		Directions: table.Directions(),
		Breakdown:  stats.ByDirection(table.Filter(f)),
	}, nil
}

// Charts computes chart-ready series over the filtered table.
func (s *DashboardService) Charts(ctx context.Context, f dataset.Filter) (*stats.Series, error) {
	filtered, err := s.FilteredTable(ctx, f)
	if err != nil {
		return nil, err
	}
	series := stats.ChartSeries(filtered)
	return &series, nil
}

// RowsPayload is the raw-table view of the filtered dataset.
type RowsPayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// Rows renders the filtered table for display: an Index column first,
// then the preferred display columns, then everything else in source
// header order.
func (s *DashboardService) Rows(ctx context.Context, f dataset.Filter) (*RowsPayload, error) {
	filtered, err := s.FilteredTable(ctx, f)
	if err != nil {
		return nil, err
	}

	columns := orderColumns(filtered)
	synthesize := !filtered.HasColumn(colIndex)

	rows := make([][]string, 0, filtered.Len())
	for i := range filtered.Records {
		rec := &filtered.Records[i]
		row := make([]string, 0, len(columns)+1)
		if synthesize {
			row = append(row, fmt.Sprintf("%d", i+1))
		}
		for _, col := range columns {
			row = append(row, rec.Cell(col))
		}
		rows = append(rows, row)
	}

	if synthesize {
		columns = append([]string{colIndex}, columns...)
	}
	return &RowsPayload{
		Columns: columns,
		Rows:    rows,
		Total:   filtered.Len(),
	}, nil
}

// orderColumns returns the source Index column first when present, then
// display columns that exist in the table, then the remaining source
// columns in header order.
func orderColumns(t *dataset.Table) []string {
	seen := map[string]bool{colIndex: true}
	var columns []string
	if t.HasColumn(colIndex) {
		columns = append(columns, colIndex)
	}
	for _, col := range displayColumns {
		if t.HasColumn(col) {
			columns = append(columns, col)
			seen[col] = true
		}
	}
	for _, col := range t.Columns {
		if !seen[col] {
			columns = append(columns, col)
		}
	}
	return columns
}
