package repository

import (
	"context"
	"fmt"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
)

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db database.DBTX
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db database.DBTX) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListTeachers retrieves all teachers ordered by name
func (r *TeacherRepository) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	query := `
		SELECT id, name, email, phone, active
		FROM teachers
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var teachers []models.Teacher
	for rows.Next() {
		var t models.Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Active); err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}

	return teachers, rows.Err()
}

// UpsertTeacher inserts or replaces a teacher
func (r *TeacherRepository) UpsertTeacher(ctx context.Context, t models.Teacher) error {
	query := r.db.GetDialect().Upsert("teachers", []string{"id"}, []string{"id", "name", "email", "phone", "active"})
	if _, err := r.db.ExecContext(ctx, query, t.ID, t.Name, t.Email, t.Phone, t.Active); err != nil {
		return fmt.Errorf("failed to save teacher %s: %w", t.ID, err)
	}
	return nil
}
