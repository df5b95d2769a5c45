package adminapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/northbridge-support/triage/internal/metrics"
	"github.com/northbridge-support/triage/internal/store"
)

// NewRouter wires the worker process's operator surface: the metrics
// endpoint, a liveness probe, and the bearer-token-gated admin API
// (donor internal/api/router.go's NewMetricsRouter + admin-only group).
func NewRouter(s store.Store, m *metrics.Metrics, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	h := NewHandler(s)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AdminAuthMiddleware(adminToken))
		r.Get("/admin/decisions/{ticket_id}", h.Explain)
		r.Get("/admin/stats", h.Stats)
	})

	return r
}

// AdminAuthMiddleware requires "Authorization: Bearer <token>" on the
// admin-only routes. An empty token disables the check (local dev).
func AdminAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
