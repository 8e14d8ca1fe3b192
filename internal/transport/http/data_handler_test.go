package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtdash/internal/config"
	apierrors "mtdash/internal/errors"
	mw "mtdash/internal/middleware"
	"mtdash/internal/services"
)

const sampleCSV = `Original Text,From,To,AI Response,Status,Completed,Timed Out,Timestamp,Translation Score
hello,English,French,bonjour,Success,Yes,No,2025-08-19 10:15:00,4.5
world,English,French,monde,Timeout,No,Yes,2025-08-19 11:00:00,
good,English,German,gut,Success,Yes,No,2025-08-20 09:30:00,5
`

func newTestHandler(t *testing.T, defaultFile string) *DataHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)

	cfg := &config.Config{}
	cfg.Data.DefaultFile = defaultFile
	cfg.Data.MaxUploadBytes = 1 << 20

	svc := services.NewDashboardService(cfg, logger, nil)
	validation, err := mw.NewValidationMiddleware(logger, errorHandler)
	require.NoError(t, err)

	return NewDataHandler(svc, logger, errorHandler, validation, nil, cfg.Data.MaxUploadBytes)
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestDataHandler_Summary(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["total_translations"])
	assert.Equal(t, float64(2), body["completed_translations"])

	info, ok := body["data_info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), info["rows"])
	assert.Equal(t, "2025-08-19", info["first_date"])
}

func TestDataHandler_Summary_WithFilter(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary?from=2025-08-20&to=2025-08-20", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["total_translations"])
}

func TestDataHandler_Summary_InvalidFilter(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary?from=08/20/2025", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestDataHandler_Summary_NoData(t *testing.T) {
	h := newTestHandler(t, filepath.Join(t.TempDir(), "missing.csv"))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_DATA_LOADED")
}

func TestDataHandler_Directions(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/directions", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	directions, ok := body["directions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, directions, 2)
}

func TestDataHandler_Rows(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rows?direction=English+%E2%86%92+German", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["total"])

	columns, ok := body["columns"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "Index", columns[0])
	assert.Equal(t, "Original Text", columns[1])
}

func TestDataHandler_Upload(t *testing.T) {
	h := newTestHandler(t, filepath.Join(t.TempDir(), "missing.csv"))
	router := h.Routes()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	r.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(3), body["rows"])

	// The upload is now the current source.
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/summary", nil))
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestDataHandler_Upload_MissingPart(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("other", "x"))
	require.NoError(t, form.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	r.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDataHandler_Upload_WrongContentType(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	r := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("{}")))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestDataHandler_ExportCSV(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="translation_results_\d{8}_\d{6}\.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, w.Body.String(), "Translation Direction")
}

func TestDataHandler_ExportXLSX(t *testing.T) {
	h := newTestHandler(t, writeSample(t))

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/xlsx", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}
