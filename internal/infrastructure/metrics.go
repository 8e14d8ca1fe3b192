package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors. One instance
// is created at startup and threaded through the services that record
// to it.
type Metrics struct {
	DatasetLoads    prometheus.Counter
	LoadFailures    prometheus.Counter
	DatasetRows     prometheus.Gauge
	ExportDownloads *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewMetrics registers the application collectors on a registry and
// returns them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DatasetLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "mtdash_dataset_loads_total",
			Help: "Number of dataset load operations, cached or not.",
		}),
		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "mtdash_dataset_load_failures_total",
			Help: "Number of dataset loads that failed to parse.",
		}),
		DatasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mtdash_dataset_rows",
			Help: "Row count of the currently loaded dataset.",
		}),
		ExportDownloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mtdash_export_downloads_total",
			Help: "Number of export downloads by format.",
		}, []string{"format"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mtdash_http_requests_total",
			Help: "HTTP requests by method, path pattern, and status.",
		}, []string{"method", "path", "status"}),
	}
}
