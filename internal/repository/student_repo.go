package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
)

var studentColumns = []string{"id", "name", "birth_date", "class_id", "active"}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db database.DBTX
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db database.DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListStudents retrieves every student, active or not
func (r *StudentRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	query := `
		SELECT id, name, birth_date, class_id, active
		FROM students
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.BirthDate, &s.ClassID, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// GetStudent retrieves a student by ID
func (r *StudentRepository) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	query := "SELECT id, name, birth_date, class_id, active FROM students WHERE id = ?"
	s := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.BirthDate, &s.ClassID, &s.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return s, nil
}

// UpsertStudent inserts a student or replaces the stored one with the same ID
func (r *StudentRepository) UpsertStudent(ctx context.Context, s models.Student) error {
	query := r.db.GetDialect().Upsert("students", []string{"id"}, studentColumns)
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.BirthDate, s.ClassID, s.Active); err != nil {
		return fmt.Errorf("failed to save student %s: %w", s.ID, err)
	}
	return nil
}

// ApplyIntents sets the active flag of every student named by an intent in a
// single transaction. Unknown student IDs are skipped. It returns how many
// rows were changed.
func (r *StudentRepository) ApplyIntents(ctx context.Context, intents []models.DeactivationIntent) (int, error) {
	if len(intents) == 0 {
		return 0, nil
	}

	changed := 0
	err := inTx(ctx, r.db, func(q database.DBTX) error {
		changed = 0
		for _, intent := range intents {
			res, err := q.ExecContext(ctx,
				"UPDATE students SET active = ? WHERE id = ? AND active <> ?",
				intent.NewActiveState, intent.StudentID, intent.NewActiveState)
			if err != nil {
				return fmt.Errorf("failed to update student %s: %w", intent.StudentID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			changed += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}
