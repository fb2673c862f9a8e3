package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
)

const (
	settingChurchName            = "church_name"
	settingLowFrequencyThreshold = "low_frequency_threshold"
)

type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	query := `SELECT setting_value FROM settings WHERE setting_key = ?`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	query := r.db.GetDialect().Upsert("settings", []string{"setting_key"}, []string{"setting_key", "setting_value"})
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// ChurchSettings overlays the stored overrides on defaults. A stored
// threshold that is not a positive integer is ignored.
func (r *SettingsRepository) ChurchSettings(ctx context.Context, defaults models.ChurchSettings) (models.ChurchSettings, error) {
	settings := defaults

	name, err := r.GetSetting(ctx, settingChurchName)
	switch {
	case err == nil:
		settings.ChurchName = name
	case !errors.Is(err, ErrNotFound):
		return defaults, err
	}

	raw, err := r.GetSetting(ctx, settingLowFrequencyThreshold)
	switch {
	case err == nil:
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			settings.LowFrequencyThreshold = n
		}
	case !errors.Is(err, ErrNotFound):
		return defaults, err
	}

	return settings, nil
}

// SaveChurchSettings stores both overrides
func (r *SettingsRepository) SaveChurchSettings(ctx context.Context, s models.ChurchSettings) error {
	if err := r.SetSetting(ctx, settingChurchName, s.ChurchName); err != nil {
		return err
	}
	return r.SetSetting(ctx, settingLowFrequencyThreshold, strconv.Itoa(s.LowFrequencyThreshold))
}
