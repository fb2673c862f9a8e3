package service

import (
	"context"
	"time"

	"ebdmanager/internal/logging"
	"ebdmanager/internal/metrics"
	"ebdmanager/internal/models"
	"ebdmanager/internal/reports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ClassReport is the per-class report of a window plus its total row.
type ClassReport struct {
	RunID  string                  `json:"runId"`
	Window reports.Window          `json:"window"`
	Rows   []models.ClassReportRow `json:"rows"`
	Total  models.ClassReportRow   `json:"total"`
}

// Dashboard bundles the dashboard cards, the trend chart and the birthdays
// of the reference month.
type Dashboard struct {
	RunID      string               `json:"runId"`
	ChurchName string               `json:"churchName"`
	Window     reports.Window       `json:"window"`
	KPIs       models.DashboardKPIs `json:"kpis"`
	Trend      []models.TrendBucket `json:"trend"`
	Birthdays  []models.Birthday    `json:"birthdays"`
}

// ReportService computes reports over a freshly loaded snapshot. Nothing is
// cached between calls.
type ReportService struct {
	loader   *SnapshotLoader
	settings SettingsStore
	defaults models.ChurchSettings
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewReportService creates a new report service. settings may be nil, in
// which case defaults are used as is.
func NewReportService(loader *SnapshotLoader, settings SettingsStore, defaults models.ChurchSettings, m *metrics.Metrics, logger zerolog.Logger) *ReportService {
	return &ReportService{
		loader:   loader,
		settings: settings,
		defaults: defaults,
		metrics:  m,
		logger:   logging.Component(logger, "report_service"),
	}
}

// ClassReport aggregates every class over the window, ordered by
// percentage descending.
func (s *ReportService) ClassReport(ctx context.Context, w reports.Window) (*ClassReport, error) {
	start := time.Now()
	runID := uuid.NewString()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows, total := reports.AggregateAll(snap.Classes, snap.Records, snap.Students, w)
	report := &ClassReport{
		RunID:  runID,
		Window: w,
		Rows:   reports.RankClasses(rows),
		Total:  total,
	}

	s.done("classes", runID, w, start).Int("rows", len(report.Rows)).Msg("class report computed")
	return report, nil
}

// StudentRanking ranks every active enrolled student over the window and
// then applies the filter, renumbering positions.
func (s *ReportService) StudentRanking(ctx context.Context, w reports.Window, filter reports.RankingFilter) ([]models.StudentRankRow, error) {
	start := time.Now()
	runID := uuid.NewString()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := reports.RankStudents(snap.Students, snap.Records, snap.Classes, w)
	rows = reports.FilterRanking(rows, filter)

	s.done("students", runID, w, start).Int("rows", len(rows)).Msg("student ranking computed")
	return rows, nil
}

// Trend builds the presence series for the window.
func (s *ReportService) Trend(ctx context.Context, w reports.Window) ([]models.TrendBucket, error) {
	start := time.Now()
	runID := uuid.NewString()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	buckets := reports.BuildTrend(snap.Records, snap.Classes, w.Granularity, w.Reference)

	s.done("trend", runID, w, start).Int("buckets", len(buckets)).Msg("trend computed")
	return buckets, nil
}

// Dashboard computes the KPIs, trend and birthdays from one snapshot.
func (s *ReportService) Dashboard(ctx context.Context, w reports.Window) (*Dashboard, error) {
	start := time.Now()
	runID := uuid.NewString()

	settings, err := s.churchSettings(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		RunID:      runID,
		ChurchName: settings.ChurchName,
		Window:     w,
		KPIs:       reports.KPIs(snap.Students, snap.Classes, snap.Teachers, snap.Records, w),
		Trend:      reports.BuildTrend(snap.Records, snap.Classes, w.Granularity, w.Reference),
		Birthdays:  reports.BirthdaysInMonth(snap.Students, w.Reference.Month, w.Reference.Year),
	}

	s.done("dashboard", runID, w, start).Msg("dashboard computed")
	return dash, nil
}

func (s *ReportService) churchSettings(ctx context.Context) (models.ChurchSettings, error) {
	if s.settings == nil {
		return s.defaults, nil
	}
	return s.settings.ChurchSettings(ctx, s.defaults)
}

func (s *ReportService) done(report, runID string, w reports.Window, start time.Time) *zerolog.Event {
	elapsed := time.Since(start)
	s.metrics.ObserveReport(report, elapsed)
	return s.logger.Info().
		Str("report", report).
		Str("run_id", runID).
		Str("granularity", string(w.Granularity)).
		Stringer("reference", w.Reference).
		Dur("elapsed", elapsed)
}

