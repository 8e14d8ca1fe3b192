package services

import (
	"context"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	dashboard *DashboardService
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	Version       string    `json:"version"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	GoVersion     string    `json:"go_version"`
	Goroutines    int       `json:"goroutines"`
	DataLoaded    bool      `json:"data_loaded"`
	DataSource    string    `json:"data_source,omitempty"`
}

// NewHealthService creates a health service
func NewHealthService(version string, dashboard *DashboardService) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		dashboard: dashboard,
	}
}

// Check reports process health. A missing dataset degrades the status
// without failing the check; the server is still serving.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := "healthy"
	loaded := s.dashboard.HasData()
	if !loaded {
		status = "degraded"
	}

	health := &HealthStatus{
		Status:        status,
		Timestamp:     time.Now(),
		Version:       s.version,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
		DataLoaded:    loaded,
	}
	if loaded {
		health.DataSource = s.dashboard.SourceName()
	}
	return health
}
