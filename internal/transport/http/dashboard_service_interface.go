package http

import (
	"context"

	"mtdash/internal/dataset"
	"mtdash/internal/services"
	"mtdash/internal/stats"
)

// DashboardServiceInterface defines the service operations the
// transport layer needs.
type DashboardServiceInterface interface {
	SourceName() string
	SetUpload(ctx context.Context, name string, data []byte) (*dataset.Table, error)
	Table(ctx context.Context) (*dataset.Table, error)
	FilteredTable(ctx context.Context, f dataset.Filter) (*dataset.Table, error)
	Summary(ctx context.Context, f dataset.Filter) (*services.SummaryPayload, error)
	Directions(ctx context.Context, f dataset.Filter) (*services.DirectionsPayload, error)
	Charts(ctx context.Context, f dataset.Filter) (*stats.Series, error)
	Rows(ctx context.Context, f dataset.Filter) (*services.RowsPayload, error)
}
