package handlers

import (
	"context"
	"errors"
	"net/http"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/logging"
	"ebdmanager/internal/models"
	"ebdmanager/internal/reports"
	"ebdmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ReportService defines the report operations the handler needs.
type ReportService interface {
	ClassReport(ctx context.Context, w reports.Window) (*service.ClassReport, error)
	StudentRanking(ctx context.Context, w reports.Window, filter reports.RankingFilter) ([]models.StudentRankRow, error)
	Trend(ctx context.Context, w reports.Window) ([]models.TrendBucket, error)
	Dashboard(ctx context.Context, w reports.Window) (*service.Dashboard, error)
}

// ReportHandler serves the report endpoints.
type ReportHandler struct {
	reports ReportService
	today   func() calendar.Date
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler. today supplies the
// reference date when a request omits one.
func NewReportHandler(reports ReportService, today func() calendar.Date, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		today:   today,
		logger:  logging.Component(logger, "report_handler"),
	}
}

// Register registers the report routes.
func (h *ReportHandler) Register(r chi.Router) {
	r.Get("/reports/classes", h.handleClassReport)
	r.Get("/reports/students", h.handleStudentRanking)
	r.Get("/reports/trend", h.handleTrend)
	r.Get("/dashboard", h.handleDashboard)
}

func (h *ReportHandler) window(w http.ResponseWriter, r *http.Request) (reports.Window, bool) {
	q := r.URL.Query()
	win, err := service.ParseWindow(q.Get("granularity"), q.Get("date"), h.today())
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidWindow, "rejected report window", err)
		return reports.Window{}, false
	}
	return win, true
}

func (h *ReportHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if timedOut(r, h.logger, err) {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, ErrReportUnavailable, "report aborted", err)
		return
	}
	respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to compute report", err)
}

func (h *ReportHandler) handleClassReport(w http.ResponseWriter, r *http.Request) {
	win, ok := h.window(w, r)
	if !ok {
		return
	}

	report, err := h.reports.ClassReport(r.Context(), win)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, report)
}

func (h *ReportHandler) handleStudentRanking(w http.ResponseWriter, r *http.Request) {
	win, ok := h.window(w, r)
	if !ok {
		return
	}

	filter := reports.RankingFilter{
		Name:    r.URL.Query().Get("q"),
		ClassID: r.URL.Query().Get("class_id"),
	}
	rows, err := h.reports.StudentRanking(r.Context(), win, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]any{
		"window": win,
		"rows":   rows,
	})
}

func (h *ReportHandler) handleTrend(w http.ResponseWriter, r *http.Request) {
	win, ok := h.window(w, r)
	if !ok {
		return
	}

	buckets, err := h.reports.Trend(r.Context(), win)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]any{
		"window":  win,
		"buckets": buckets,
	})
}

func (h *ReportHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	win, ok := h.window(w, r)
	if !ok {
		return
	}

	dash, err := h.reports.Dashboard(r.Context(), win)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, dash)
}
