package repository

import (
	"context"
	"path/filepath"
	"testing"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
	"ebdmanager/internal/reports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "ebd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations("../../migrations"))
	return db
}

func TestStudentRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewStudentRepository(db)

	require.NoError(t, repo.UpsertStudent(ctx, models.Student{ID: "s1", Name: "Bruno", ClassID: "c1", Active: true, BirthDate: "2012-05-03"}))
	require.NoError(t, repo.UpsertStudent(ctx, models.Student{ID: "s2", Name: "Ana", ClassID: "c1", Active: true}))
	require.NoError(t, repo.UpsertStudent(ctx, models.Student{ID: "s1", Name: "Bruno Lima", ClassID: "c2", Active: true, BirthDate: "2012-05-03"}))

	students, err := repo.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ana", students[0].Name)
	assert.Equal(t, models.Student{ID: "s1", Name: "Bruno Lima", ClassID: "c2", Active: true, BirthDate: "2012-05-03"}, students[1])

	_, err = repo.GetStudent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyIntents(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewStudentRepository(db)

	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, repo.UpsertStudent(ctx, models.Student{ID: id, Name: id, ClassID: "c1", Active: id != "s3"}))
	}

	changed, err := repo.ApplyIntents(ctx, []models.DeactivationIntent{
		{StudentID: "s1", NewActiveState: false, ConsecutiveAbsences: 4},
		{StudentID: "s3", NewActiveState: false, ConsecutiveAbsences: 6},
		{StudentID: "ghost", NewActiveState: false, ConsecutiveAbsences: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed, "already inactive and unknown students are not counted")

	s1, err := repo.GetStudent(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, s1.Active)

	s2, err := repo.GetStudent(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, s2.Active)

	changed, err = repo.ApplyIntents(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestAttendanceRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	rec := models.AttendanceRecord{
		Date:                  "2024-03-10",
		ClassID:               "c1",
		PresentStudentIDs:     []string{"s2", "s1"},
		VisitorsCount:         3,
		BiblesCount:           2,
		MagazinesCount:        1,
		OfferingValue:         decimal.RequireFromString("12.50"),
		Justifications:        map[string]string{"s3": "doente"},
		RegisteredByTeacherID: "t1",
	}
	require.NoError(t, repo.SaveRecord(ctx, rec))
	require.NoError(t, repo.SaveRecord(ctx, models.AttendanceRecord{Date: "2024-03-03", ClassID: "c1", PresentStudentIDs: []string{}}))

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-03-03", records[0].Date)
	assert.Empty(t, records[0].PresentStudentIDs)
	assert.Nil(t, records[0].Justifications)

	got := records[1]
	assert.Equal(t, []string{"s1", "s2"}, got.PresentStudentIDs)
	assert.Equal(t, 3, got.VisitorsCount)
	assert.True(t, got.OfferingValue.Equal(decimal.RequireFromString("12.5")), got.OfferingValue.String())
	assert.Equal(t, map[string]string{"s3": "doente"}, got.Justifications)
	assert.Equal(t, "t1", got.RegisteredByTeacherID)

	// Saving again for the same date and class replaces the record.
	rec.PresentStudentIDs = []string{"s1"}
	rec.Justifications = nil
	require.NoError(t, repo.SaveRecord(ctx, rec))

	records, err = repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"s1"}, records[1].PresentStudentIDs)
	assert.Nil(t, records[1].Justifications)
}

func TestSaveRecordKeysByCalendarDate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.SaveRecord(ctx, models.AttendanceRecord{Date: "2024-06-02", ClassID: "c1", PresentStudentIDs: []string{"s1"}}))
	require.NoError(t, repo.SaveRecord(ctx, models.AttendanceRecord{Date: "2024-06-02T09:00:00Z", ClassID: "c1", PresentStudentIDs: []string{"s1", "s2"}}))

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-06-02|c1", records[0].Key())
	assert.Equal(t, []string{"s1", "s2"}, records[0].PresentStudentIDs)

	students := []models.Student{
		{ID: "s1", Name: "Ana", ClassID: "c1", Active: true},
		{ID: "s2", Name: "Bia", ClassID: "c1", Active: true},
	}
	row := reports.AggregateClass("c1", records, students, reports.NewWindow(calendar.Day, calendar.MustParse("2024-06-02")))
	assert.Equal(t, 1, row.Sessions)
	assert.Equal(t, 2, row.TotalPresent)
	assert.Equal(t, 0, row.TotalAbsent)
}

func TestSaveRecordRejectsInvalid(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewAttendanceRepository(db)

	err := repo.SaveRecord(ctx, models.AttendanceRecord{Date: "2024-03-10", ClassID: "c1", OfferingValue: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	err = repo.SaveRecord(ctx, models.AttendanceRecord{Date: "2024-03-10", ClassID: "c1", PresentStudentIDs: []string{"s1", "s1"}})
	assert.Error(t, err)

	records, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRepositoriesInsideTransaction(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		if err := NewClassRepository(tx).UpsertClass(ctx, models.ClassRoom{ID: "c1", Name: "Juniores"}); err != nil {
			return err
		}
		return NewTeacherRepository(tx).UpsertTeacher(ctx, models.Teacher{ID: "t1", Name: "Marta", Active: true})
	})
	require.NoError(t, err)

	classes, err := NewClassRepository(db).ListClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ClassRoom{{ID: "c1", Name: "Juniores"}}, classes)

	teachers, err := NewTeacherRepository(db).ListTeachers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Teacher{{ID: "t1", Name: "Marta", Active: true}}, teachers)
}

func TestChurchSettings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSettingsRepository(db)
	defaults := models.ChurchSettings{ChurchName: "Igreja", LowFrequencyThreshold: 4}

	got, err := repo.ChurchSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	require.NoError(t, repo.SaveChurchSettings(ctx, models.ChurchSettings{ChurchName: "Assembleia Central", LowFrequencyThreshold: 6}))
	got, err = repo.ChurchSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, models.ChurchSettings{ChurchName: "Assembleia Central", LowFrequencyThreshold: 6}, got)

	require.NoError(t, repo.SetSetting(ctx, "low_frequency_threshold", "zero"))
	got, err = repo.ChurchSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, 4, got.LowFrequencyThreshold)
}
