package handlers

import (
	"net/http"
	"time"

	"ebdmanager/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 30 * time.Second

// RouterOptions tunes the API router.
type RouterOptions struct {
	// RequestTimeout bounds every /api request. Zero means 30s.
	RequestTimeout time.Duration
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRouter wires the API, health and metrics endpoints.
func NewRouter(reports *ReportHandler, registry *RegistryHandler, m *metrics.Metrics, gatherer prometheus.Gatherer, opts RouterOptions, logger zerolog.Logger) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(Logging(logger))
	r.Use(Instrument(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		reports.Register(r)
		registry.Register(r)
	})

	return r
}
