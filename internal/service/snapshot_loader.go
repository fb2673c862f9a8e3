package service

import (
	"context"
	"fmt"

	"ebdmanager/internal/logging"
	"ebdmanager/internal/metrics"
	"ebdmanager/internal/models"
	"ebdmanager/internal/validation"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SnapshotLoader reads the four collections reports are computed from and
// passes them through boundary validation.
type SnapshotLoader struct {
	students  StudentStore
	classes   ClassStore
	teachers  TeacherStore
	records   AttendanceStore
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewSnapshotLoader creates a new snapshot loader
func NewSnapshotLoader(students StudentStore, classes ClassStore, teachers TeacherStore, records AttendanceStore, m *metrics.Metrics, logger zerolog.Logger) *SnapshotLoader {
	return &SnapshotLoader{
		students:  students,
		classes:   classes,
		teachers:  teachers,
		records:   records,
		validator: validation.New(),
		metrics:   m,
		logger:    logging.Component(logger, "snapshot_loader"),
	}
}

// Load fetches all collections concurrently. A failing store aborts the load;
// invalid rows are dropped with a warning.
func (l *SnapshotLoader) Load(ctx context.Context) (models.Snapshot, error) {
	g, ctx := errgroup.WithContext(ctx)

	var raw models.Snapshot
	g.Go(func() error {
		students, err := l.students.ListStudents(ctx)
		if err != nil {
			return fmt.Errorf("failed to load students: %w", err)
		}
		raw.Students = students
		return nil
	})
	g.Go(func() error {
		classes, err := l.classes.ListClasses(ctx)
		if err != nil {
			return fmt.Errorf("failed to load classes: %w", err)
		}
		raw.Classes = classes
		return nil
	})
	g.Go(func() error {
		teachers, err := l.teachers.ListTeachers(ctx)
		if err != nil {
			return fmt.Errorf("failed to load teachers: %w", err)
		}
		raw.Teachers = teachers
		return nil
	})
	g.Go(func() error {
		records, err := l.records.ListRecords(ctx)
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		raw.Records = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}

	snap, rejected := l.validator.Ingest(raw)
	perEntity := make(map[string]int)
	for _, r := range rejected {
		perEntity[r.Entity]++
		l.logger.Warn().
			Str("entity", r.Entity).
			Str("id", r.ID).
			Str("reason", r.Reason).
			Msg("dropping invalid row")
	}
	for entity, n := range perEntity {
		l.metrics.AddRejected(entity, n)
	}

	return snap, nil
}
