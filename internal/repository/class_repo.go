package repository

import (
	"context"
	"fmt"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
)

// ClassRepository handles database operations for classes
type ClassRepository struct {
	db database.DBTX
}

// NewClassRepository creates a new class repository
func NewClassRepository(db database.DBTX) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListClasses retrieves all classes ordered by name
func (r *ClassRepository) ListClasses(ctx context.Context) ([]models.ClassRoom, error) {
	query := `
		SELECT id, name, age_range, main_teacher_id
		FROM classes
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []models.ClassRoom
	for rows.Next() {
		var c models.ClassRoom
		if err := rows.Scan(&c.ID, &c.Name, &c.AgeRange, &c.MainTeacherID); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}

	return classes, rows.Err()
}

// UpsertClass inserts or replaces a class
func (r *ClassRepository) UpsertClass(ctx context.Context, c models.ClassRoom) error {
	query := r.db.GetDialect().Upsert("classes", []string{"id"}, []string{"id", "name", "age_range", "main_teacher_id"})
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.AgeRange, c.MainTeacherID); err != nil {
		return fmt.Errorf("failed to save class %s: %w", c.ID, err)
	}
	return nil
}
