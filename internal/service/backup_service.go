package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"ebdmanager/internal/database"
	"ebdmanager/internal/logging"
	"ebdmanager/internal/models"
	"ebdmanager/internal/repository"
	"ebdmanager/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string    `json:"version"`
	ExportedAt   time.Time `json:"exported_at"`
	DatabaseType string    `json:"database_type"`
	models.Snapshot
}

// ImportSummary counts what an import stored and what it dropped.
type ImportSummary struct {
	Students int                    `json:"students"`
	Classes  int                    `json:"classes"`
	Teachers int                    `json:"teachers"`
	Records  int                    `json:"attendance"`
	Rejected []validation.Rejection `json:"rejected,omitempty"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db        *database.DB
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, logger zerolog.Logger) *BackupService {
	return &BackupService{
		db:        db,
		validator: validation.New(),
		logger:    logging.Component(logger, "backup_service"),
	}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}

	s.logger.Info().Str("path", outputPath).Msg("database exported")
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: "universal",
	}

	var err error
	if backup.Students, err = repository.NewStudentRepository(s.db).ListStudents(ctx); err != nil {
		return fmt.Errorf("failed to export students: %w", err)
	}
	if backup.Classes, err = repository.NewClassRepository(s.db).ListClasses(ctx); err != nil {
		return fmt.Errorf("failed to export classes: %w", err)
	}
	if backup.Teachers, err = repository.NewTeacherRepository(s.db).ListTeachers(ctx); err != nil {
		return fmt.Errorf("failed to export teachers: %w", err)
	}
	if backup.Records, err = repository.NewAttendanceRepository(s.db).ListRecords(ctx); err != nil {
		return fmt.Errorf("failed to export attendance: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.logger.Info().
		Int("students", len(backup.Students)).
		Int("classes", len(backup.Classes)).
		Int("teachers", len(backup.Teachers)).
		Int("attendance", len(backup.Records)).
		Msg("export completed")
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (*ImportSummary, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a database from a backup reader. Entities
// without an ID get a fresh one; invalid entities are skipped and listed in
// the summary. Everything valid is upserted in one transaction.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) (*ImportSummary, error) {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}

	s.logger.Info().
		Str("version", backup.Version).
		Time("exported_at", backup.ExportedAt).
		Msg("importing backup")

	assignMissingIDs(&backup.Snapshot)
	snap, rejected := s.validator.Ingest(backup.Snapshot)
	for _, r := range rejected {
		s.logger.Warn().Str("entity", r.Entity).Str("id", r.ID).Str("reason", r.Reason).Msg("skipping invalid backup row")
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		classes := repository.NewClassRepository(tx)
		for _, c := range snap.Classes {
			if err := classes.UpsertClass(ctx, c); err != nil {
				return err
			}
		}
		teachers := repository.NewTeacherRepository(tx)
		for _, t := range snap.Teachers {
			if err := teachers.UpsertTeacher(ctx, t); err != nil {
				return err
			}
		}
		students := repository.NewStudentRepository(tx)
		for _, st := range snap.Students {
			if err := students.UpsertStudent(ctx, st); err != nil {
				return err
			}
		}
		records := repository.NewAttendanceRepository(tx)
		for _, r := range snap.Records {
			if err := records.SaveRecord(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import backup: %w", err)
	}

	summary := &ImportSummary{
		Students: len(snap.Students),
		Classes:  len(snap.Classes),
		Teachers: len(snap.Teachers),
		Records:  len(snap.Records),
		Rejected: rejected,
	}
	s.logger.Info().
		Int("students", summary.Students).
		Int("classes", summary.Classes).
		Int("teachers", summary.Teachers).
		Int("attendance", summary.Records).
		Int("rejected", len(rejected)).
		Msg("import completed")
	return summary, nil
}

func assignMissingIDs(snap *models.Snapshot) {
	for i := range snap.Students {
		if snap.Students[i].ID == "" {
			snap.Students[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Classes {
		if snap.Classes[i].ID == "" {
			snap.Classes[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Teachers {
		if snap.Teachers[i].ID == "" {
			snap.Teachers[i].ID = uuid.NewString()
		}
	}
}
