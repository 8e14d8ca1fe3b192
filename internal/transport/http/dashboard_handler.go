package http

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "mtdash/internal/errors"
	mw "mtdash/internal/middleware"
	"mtdash/internal/services"
	"mtdash/internal/view"
)

const noDataPage = `<!DOCTYPE html>
<html><head><title>Translation Test Results</title></head>
<body style="font-family:sans-serif;max-width:700px;margin:48px auto">
<h1>Translation Test Results</h1>
<p>No test results are loaded. Upload a results CSV to
<code>POST /api/data/upload</code> or configure a default file.</p>
</body></html>`

// DashboardHandler serves the rendered dashboard page.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *mw.ValidationMiddleware
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	service DashboardServiceInterface,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
	validation *mw.ValidationMiddleware,
) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validation:   validation,
	}
}

// Dashboard handles GET /. The page honors the same filter parameters
// as the JSON API so filtered views can be bookmarked.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.validation)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrNoDataLoaded) {
			// A browser hitting the dashboard with no data gets a
			// prompt, not a JSON problem document.
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(noDataPage))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}
	directions, err := h.service.Directions(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	series, err := h.service.Charts(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Render(w, view.Data{
		Source:     h.service.SourceName(),
		Summary:    summary.Summary,
		Breakdown:  directions.Breakdown,
		Series:     *series,
		Directions: directions.Directions,
	}); err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard render failed",
			slog.String("error", err.Error()))
	}
}
