package service

import (
	"context"
	"sync"

	"ebdmanager/internal/models"

	"github.com/rs/zerolog"
)

var testLogger = zerolog.Nop()

type fakeStore struct {
	mu       sync.Mutex
	snap     models.Snapshot
	err      error
	applied  []models.DeactivationIntent
	applyErr error
}

func (f *fakeStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.snap.Students, f.err
}

func (f *fakeStore) ListClasses(ctx context.Context) ([]models.ClassRoom, error) {
	return f.snap.Classes, nil
}

func (f *fakeStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return f.snap.Teachers, nil
}

func (f *fakeStore) ListRecords(ctx context.Context) ([]models.AttendanceRecord, error) {
	return f.snap.Records, nil
}

func (f *fakeStore) ApplyIntents(ctx context.Context, intents []models.DeactivationIntent) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return 0, f.applyErr
	}
	f.applied = append(f.applied, intents...)
	return len(intents), nil
}

type fakeSettings struct {
	settings models.ChurchSettings
}

func (f fakeSettings) ChurchSettings(ctx context.Context, defaults models.ChurchSettings) (models.ChurchSettings, error) {
	return f.settings, nil
}

type fakeNotifier struct {
	enabled bool
	err     error
	to      string
	church  string
	streaks []models.AbsenceStreak
}

func (f *fakeNotifier) IsEnabled() bool { return f.enabled }

func (f *fakeNotifier) SendLowFrequencyNotice(ctx context.Context, toEmail, churchName string, streaks []models.AbsenceStreak) error {
	f.to = toEmail
	f.church = churchName
	f.streaks = streaks
	return f.err
}

func newLoader(store *fakeStore) *SnapshotLoader {
	return NewSnapshotLoader(store, store, store, store, nil, testLogger)
}

// fixture is a class of three students with four Sunday sessions in March
// 2024. s3 missed all four.
func fixture() models.Snapshot {
	return models.Snapshot{
		Classes: []models.ClassRoom{{ID: "c1", Name: "Juniores"}},
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Marta", Active: true},
		},
		Students: []models.Student{
			{ID: "s1", Name: "Ana", ClassID: "c1", Active: true, BirthDate: "2012-03-15"},
			{ID: "s2", Name: "Bruno", ClassID: "c1", Active: true},
			{ID: "s3", Name: "Carla", ClassID: "c1", Active: true},
		},
		Records: []models.AttendanceRecord{
			{Date: "2024-03-03", ClassID: "c1", PresentStudentIDs: []string{"s1", "s2"}, VisitorsCount: 1},
			{Date: "2024-03-10", ClassID: "c1", PresentStudentIDs: []string{"s1"}},
			{Date: "2024-03-17", ClassID: "c1", PresentStudentIDs: []string{"s1", "s2"}},
			{Date: "2024-03-24", ClassID: "c1", PresentStudentIDs: []string{"s1", "s2"}, VisitorsCount: 2},
		},
	}
}
