package service

import (
	"context"
	"time"

	"ebdmanager/internal/logging"
	"ebdmanager/internal/metrics"
	"ebdmanager/internal/models"
	"ebdmanager/internal/reports"

	"github.com/rs/zerolog"
)

// Notifier sends the secretary a summary of deactivated students.
type Notifier interface {
	IsEnabled() bool
	SendLowFrequencyNotice(ctx context.Context, toEmail, churchName string, streaks []models.AbsenceStreak) error
}

// LowFrequencyPreview is the policy outcome without any writes.
type LowFrequencyPreview struct {
	Threshold int                         `json:"threshold"`
	Streaks   []models.AbsenceStreak      `json:"streaks"`
	Intents   []models.DeactivationIntent `json:"intents"`
}

// LowFrequencyResult reports what an apply run changed.
type LowFrequencyResult struct {
	LowFrequencyPreview
	Deactivated int  `json:"deactivated"`
	Notified    bool `json:"notified"`
}

// RegistryService runs the low-frequency policy against the student registry.
type RegistryService struct {
	loader         *SnapshotLoader
	students       StudentStore
	settings       SettingsStore
	defaults       models.ChurchSettings
	notifier       Notifier
	secretaryEmail string
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewRegistryService creates a new registry service. settings and notifier
// may be nil.
func NewRegistryService(
	loader *SnapshotLoader,
	students StudentStore,
	settings SettingsStore,
	defaults models.ChurchSettings,
	notifier Notifier,
	secretaryEmail string,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *RegistryService {
	return &RegistryService{
		loader:         loader,
		students:       students,
		settings:       settings,
		defaults:       defaults,
		notifier:       notifier,
		secretaryEmail: secretaryEmail,
		metrics:        m,
		logger:         logging.Component(logger, "registry_service"),
	}
}

// PreviewLowFrequency evaluates the policy and returns its decisions.
func (s *RegistryService) PreviewLowFrequency(ctx context.Context) (*LowFrequencyPreview, error) {
	start := time.Now()

	preview, _, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveReport("low_frequency", elapsed)
	s.logger.Info().
		Int("threshold", preview.Threshold).
		Int("flagged", len(preview.Intents)).
		Dur("elapsed", elapsed).
		Msg("low-frequency preview computed")
	return preview, nil
}

// ApplyLowFrequency evaluates the policy and deactivates every flagged
// student in one batch. When anyone was deactivated and a notifier and
// secretary address are configured, a notice is sent; a failed notice is
// logged and does not fail the run.
func (s *RegistryService) ApplyLowFrequency(ctx context.Context) (*LowFrequencyResult, error) {
	preview, settings, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}

	result := &LowFrequencyResult{LowFrequencyPreview: *preview}
	if len(preview.Intents) == 0 {
		s.logger.Info().Int("threshold", preview.Threshold).Msg("no students to deactivate")
		return result, nil
	}

	changed, err := s.students.ApplyIntents(ctx, preview.Intents)
	if err != nil {
		return nil, err
	}
	result.Deactivated = changed
	s.metrics.AddDeactivations(changed)

	s.logger.Info().
		Int("threshold", preview.Threshold).
		Int("flagged", len(preview.Intents)).
		Int("deactivated", changed).
		Msg("low-frequency deactivation applied")

	if changed > 0 && s.notifier != nil && s.notifier.IsEnabled() && s.secretaryEmail != "" {
		var flagged []models.AbsenceStreak
		for _, st := range preview.Streaks {
			if st.Flagged {
				flagged = append(flagged, st)
			}
		}
		if err := s.notifier.SendLowFrequencyNotice(ctx, s.secretaryEmail, settings.ChurchName, flagged); err != nil {
			s.logger.Warn().Err(err).Str("to", s.secretaryEmail).Msg("failed to send low-frequency notice")
		} else {
			result.Notified = true
		}
	}

	return result, nil
}

func (s *RegistryService) evaluate(ctx context.Context) (*LowFrequencyPreview, models.ChurchSettings, error) {
	settings := s.defaults
	if s.settings != nil {
		var err error
		settings, err = s.settings.ChurchSettings(ctx, s.defaults)
		if err != nil {
			return nil, settings, err
		}
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, settings, err
	}

	policy := reports.NewLowFrequencyPolicy(settings.LowFrequencyThreshold)
	streaks := policy.Streaks(snap.Students, snap.Records)
	intents := reports.Intents(streaks)
	s.metrics.SetFlagged(len(intents))

	return &LowFrequencyPreview{
		Threshold: policy.Threshold,
		Streaks:   streaks,
		Intents:   intents,
	}, settings, nil
}
