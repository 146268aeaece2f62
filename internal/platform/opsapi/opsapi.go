package opsapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// Handler serves the daemon's own operational surface: liveness plus the
// prometheus scrape endpoint. It is not an operator API; kiosk interaction
// happens on the device, not over HTTP.
type Handler struct {
	logger *log.Logger
	checks map[string]HealthCheck
}

func New(logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger: logger,
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a named dependency probe for /healthz.
func (h *Handler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// Router builds the ops router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Printf("healthz: %s: %v", name, err)
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":       http.StatusText(status),
		"dependencies": deps,
	})
}
