package service

import (
	"context"

	"ebdmanager/internal/models"
)

// StudentStore is the student side of the persistence layer.
type StudentStore interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ApplyIntents(ctx context.Context, intents []models.DeactivationIntent) (int, error)
}

// ClassStore lists classes.
type ClassStore interface {
	ListClasses(ctx context.Context) ([]models.ClassRoom, error)
}

// TeacherStore lists teachers.
type TeacherStore interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
}

// AttendanceStore lists attendance records.
type AttendanceStore interface {
	ListRecords(ctx context.Context) ([]models.AttendanceRecord, error)
}

// SettingsStore resolves stored overrides of the church settings.
type SettingsStore interface {
	ChurchSettings(ctx context.Context, defaults models.ChurchSettings) (models.ChurchSettings, error)
}
