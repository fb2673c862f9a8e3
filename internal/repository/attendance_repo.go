package repository

import (
	"context"
	"fmt"
	"sort"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
	"ebdmanager/internal/validation"
)

var recordColumns = []string{
	"session_date", "class_id", "visitors_count", "bibles_count",
	"magazines_count", "offering_value", "registered_by_teacher_id",
}

// AttendanceRepository handles database operations for attendance records.
// A record is stored as a header row plus one row per present student and
// per justified absence.
type AttendanceRepository struct {
	db        database.DBTX
	validator *validation.Validator
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db database.DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db, validator: validation.New()}
}

// ListRecords retrieves every attendance record ordered by date then class
func (r *AttendanceRepository) ListRecords(ctx context.Context) ([]models.AttendanceRecord, error) {
	query := `
		SELECT session_date, class_id, visitors_count, bibles_count,
		       magazines_count, offering_value, registered_by_teacher_id
		FROM attendance_records
		ORDER BY session_date ASC, class_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec models.AttendanceRecord
		if err := rows.Scan(
			&rec.Date,
			&rec.ClassID,
			&rec.VisitorsCount,
			&rec.BiblesCount,
			&rec.MagazinesCount,
			&rec.OfferingValue,
			&rec.RegisteredByTeacherID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		rec.PresentStudentIDs = []string{}
		index[rec.Key()] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPresences(ctx, records, index); err != nil {
		return nil, err
	}
	if err := r.loadJustifications(ctx, records, index); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *AttendanceRepository) loadPresences(ctx context.Context, records []models.AttendanceRecord, index map[string]int) error {
	query := `
		SELECT session_date, class_id, student_id
		FROM attendance_presences
		ORDER BY session_date ASC, class_id ASC, student_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query presences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date, classID, studentID string
		if err := rows.Scan(&date, &classID, &studentID); err != nil {
			return fmt.Errorf("failed to scan presence: %w", err)
		}
		i, ok := index[date+"|"+classID]
		if !ok {
			continue
		}
		records[i].PresentStudentIDs = append(records[i].PresentStudentIDs, studentID)
	}
	return rows.Err()
}

func (r *AttendanceRepository) loadJustifications(ctx context.Context, records []models.AttendanceRecord, index map[string]int) error {
	query := `
		SELECT session_date, class_id, student_id, reason
		FROM attendance_justifications
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query justifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date, classID, studentID, reason string
		if err := rows.Scan(&date, &classID, &studentID, &reason); err != nil {
			return fmt.Errorf("failed to scan justification: %w", err)
		}
		i, ok := index[date+"|"+classID]
		if !ok {
			continue
		}
		if records[i].Justifications == nil {
			records[i].Justifications = make(map[string]string)
		}
		records[i].Justifications[studentID] = reason
	}
	return rows.Err()
}

// SaveRecord validates a record and stores it under its YYYY-MM-DD date,
// replacing any record already saved for the same date and class.
func (r *AttendanceRepository) SaveRecord(ctx context.Context, rec models.AttendanceRecord) error {
	rec, err := r.validator.CanonicalRecord(rec)
	if err != nil {
		return err
	}

	return inTx(ctx, r.db, func(q database.DBTX) error {
		query := q.GetDialect().Upsert("attendance_records", []string{"session_date", "class_id"}, recordColumns)
		if _, err := q.ExecContext(ctx, query,
			rec.Date,
			rec.ClassID,
			rec.VisitorsCount,
			rec.BiblesCount,
			rec.MagazinesCount,
			rec.OfferingValue,
			rec.RegisteredByTeacherID,
		); err != nil {
			return fmt.Errorf("failed to save attendance record %s: %w", rec.Key(), err)
		}

		if _, err := q.ExecContext(ctx,
			"DELETE FROM attendance_presences WHERE session_date = ? AND class_id = ?",
			rec.Date, rec.ClassID); err != nil {
			return fmt.Errorf("failed to clear presences: %w", err)
		}
		for _, studentID := range rec.PresentStudentIDs {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO attendance_presences (session_date, class_id, student_id) VALUES (?, ?, ?)",
				rec.Date, rec.ClassID, studentID); err != nil {
				return fmt.Errorf("failed to save presence of %s: %w", studentID, err)
			}
		}

		if _, err := q.ExecContext(ctx,
			"DELETE FROM attendance_justifications WHERE session_date = ? AND class_id = ?",
			rec.Date, rec.ClassID); err != nil {
			return fmt.Errorf("failed to clear justifications: %w", err)
		}
		studentIDs := make([]string, 0, len(rec.Justifications))
		for id := range rec.Justifications {
			studentIDs = append(studentIDs, id)
		}
		sort.Strings(studentIDs)
		for _, studentID := range studentIDs {
			if _, err := q.ExecContext(ctx,
				"INSERT INTO attendance_justifications (session_date, class_id, student_id, reason) VALUES (?, ?, ?, ?)",
				rec.Date, rec.ClassID, studentID, rec.Justifications[studentID]); err != nil {
				return fmt.Errorf("failed to save justification of %s: %w", studentID, err)
			}
		}
		return nil
	})
}
