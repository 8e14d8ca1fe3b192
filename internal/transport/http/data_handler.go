package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "mtdash/internal/errors"
	"mtdash/internal/exporter"
	"mtdash/internal/infrastructure"
	mw "mtdash/internal/middleware"
	"mtdash/internal/services"
	"mtdash/internal/stats"
)

// DataHandler handles the data API: summary, breakdown, charts, rows,
// upload, and exports.
type DataHandler struct {
	service        DashboardServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validation     *mw.ValidationMiddleware
	metrics        *infrastructure.Metrics
	csvExporter    *exporter.CSVExporter
	xlsxExporter   *exporter.XLSXExporter
	maxUploadBytes int64
	now            func() time.Time
}

// NewDataHandler creates a new data handler
func NewDataHandler(
	service DashboardServiceInterface,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
	validation *mw.ValidationMiddleware,
	metrics *infrastructure.Metrics,
	maxUploadBytes int64,
) *DataHandler {
	return &DataHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "data_handler")),
		errorHandler:   errorHandler,
		validation:     validation,
		metrics:        metrics,
		csvExporter:    exporter.NewCSVExporter(logger),
		xlsxExporter:   exporter.NewXLSXExporter(logger),
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(mw.ContentTypeValidator("multipart/form-data")).Post("/upload", h.Upload)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.Summary)
		r.Get("/directions", h.Directions)
		r.Get("/charts", h.Charts)
		r.Get("/rows", h.Rows)
	})

	r.Get("/export", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportXLSX)

	return r
}

// Upload handles POST /api/data/upload. The uploaded CSV becomes the
// current source for every subsequent request.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := infrastructure.GetTraceID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A CSV file part named \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)),
	)

	table, err := h.service.SetUpload(r.Context(), header.Filename, data)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"filename": header.Filename,
		"rows":     table.Len(),
		"columns":  len(table.Columns),
	})
}

// Summary handles GET /api/data/summary
func (h *DataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, payload)
}

// Directions handles GET /api/data/directions
func (h *DataHandler) Directions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload, err := h.service.Directions(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, payload)
}

// Charts handles GET /api/data/charts
func (h *DataHandler) Charts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	series, err := h.service.Charts(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, series)
}

// Rows handles GET /api/data/rows
func (h *DataHandler) Rows(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload, err := h.service.Rows(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, payload)
}

// ExportCSV handles GET /api/data/export
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.FilteredTable(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	filename := exporter.Filename(h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.csvExporter.Write(w, table); err != nil {
		// Headers are gone; log and give up on this response.
		h.logger.ErrorContext(r.Context(), "csv export failed mid-stream",
			slog.String("error", err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.ExportDownloads.WithLabelValues("csv").Inc()
	}
	h.logger.InfoContext(r.Context(), "csv export served",
		slog.String("filename", filename),
		slog.Int("rows", table.Len()))
}

// ExportXLSX handles GET /api/data/export/xlsx
func (h *DataHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	table, err := h.service.FilteredTable(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	filename := exporter.XLSXFilename(h.now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.xlsxExporter.Write(w, stats.Summarize(table), stats.ByDirection(table)); err != nil {
		h.logger.ErrorContext(r.Context(), "xlsx export failed mid-stream",
			slog.String("error", err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.ExportDownloads.WithLabelValues("xlsx").Inc()
	}
	h.logger.InfoContext(r.Context(), "xlsx export served",
		slog.String("filename", filename),
		slog.Int("rows", table.Len()))
}

// respondServiceError maps service sentinels to API errors.
func (h *DataHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoDataLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDataNotFound)
	case errors.Is(err, services.ErrLoadFailed):
		h.errorHandler.HandleError(w, r, apierrors.DatasetParseError(err))
	case errors.Is(err, services.ErrEmptyUpload):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "Uploaded file is empty"))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
