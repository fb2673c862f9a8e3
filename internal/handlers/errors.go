package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, logger zerolog.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		event := logger.Error()
		if status < http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.Err(err).Int("status", status).Msg(logMsg)
	}

	respondWithJSON(w, logger, status, errorResponse{Error: userMsg})
}

func respondWithJSON(w http.ResponseWriter, logger zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// timedOut reports whether the request deadline has passed. The Timeout
// middleware then writes the 504 itself, so handlers must not respond.
func timedOut(r *http.Request, logger zerolog.Logger, err error) bool {
	if !errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		return false
	}
	logger.Warn().Err(err).Str("path", r.URL.Path).Msg("request timed out")
	return true
}
