package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtdash/internal/config"
	"mtdash/internal/services"
)

func TestHealthHandler_Check(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Data.DefaultFile = filepath.Join(t.TempDir(), "missing.csv")

	svc := services.NewDashboardService(cfg, logger, nil)
	h := NewHealthHandler(services.NewHealthService("test", svc), logger)

	w := httptest.NewRecorder()
	h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["data_loaded"])
	assert.Equal(t, "test", body["version"])
}
