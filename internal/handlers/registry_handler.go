package handlers

import (
	"context"
	"net/http"

	"ebdmanager/internal/logging"
	"ebdmanager/internal/security"
	"ebdmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegistryService defines the low-frequency operations the handler needs.
type RegistryService interface {
	PreviewLowFrequency(ctx context.Context) (*service.LowFrequencyPreview, error)
	ApplyLowFrequency(ctx context.Context) (*service.LowFrequencyResult, error)
}

// RegistryHandler serves the student registry endpoints.
type RegistryHandler struct {
	registry RegistryService
	limiter  *security.RateLimiter
	logger   zerolog.Logger
}

// NewRegistryHandler creates a new registry handler. A nil limiter leaves
// the apply endpoint unlimited.
func NewRegistryHandler(registry RegistryService, limiter *security.RateLimiter, logger zerolog.Logger) *RegistryHandler {
	return &RegistryHandler{
		registry: registry,
		limiter:  limiter,
		logger:   logging.Component(logger, "registry_handler"),
	}
}

// Register registers the registry routes.
func (h *RegistryHandler) Register(r chi.Router) {
	r.Get("/registry/low-frequency", h.handlePreview)
	if h.limiter != nil {
		r.With(h.limiter.Middleware).Post("/registry/low-frequency/apply", h.handleApply)
	} else {
		r.Post("/registry/low-frequency/apply", h.handleApply)
	}
}

func (h *RegistryHandler) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.registry.PreviewLowFrequency(r.Context())
	if err != nil {
		if timedOut(r, h.logger, err) {
			return
		}
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to evaluate low-frequency policy", err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, preview)
}

func (h *RegistryHandler) handleApply(w http.ResponseWriter, r *http.Request) {
	result, err := h.registry.ApplyLowFrequency(r.Context())
	if err != nil {
		if timedOut(r, h.logger, err) {
			return
		}
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrDeactivationFailed, "failed to apply low-frequency policy", err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, result)
}
