package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mtdash/internal/infrastructure"
)

// Metrics records per-request counters. It should sit after the router
// has matched so the chi route pattern is available; falling back to the
// raw path would explode label cardinality.
func Metrics(m *infrastructure.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}

			m.HTTPRequests.WithLabelValues(
				r.Method,
				pattern,
				strconv.Itoa(ww.Status()),
			).Inc()
		})
	}
}
