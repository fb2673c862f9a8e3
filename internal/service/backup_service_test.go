package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"ebdmanager/internal/database"
	"ebdmanager/internal/models"
	"ebdmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackupDB(t *testing.T) *database.DB {
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

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()

	source := openBackupDB(t)
	data, err := json.Marshal(BackupData{Version: backupVersion, Snapshot: fixture()})
	require.NoError(t, err)

	summary, err := NewBackupService(source, testLogger).ImportFromReader(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Students)
	assert.Equal(t, 4, summary.Records)
	assert.Empty(t, summary.Rejected)

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(source, testLogger).ExportToWriter(ctx, &buf))

	target := openBackupDB(t)
	_, err = NewBackupService(target, testLogger).ImportFromReader(ctx, &buf)
	require.NoError(t, err)

	records, err := repository.NewAttendanceRepository(target).ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"s1", "s2"}, records[0].PresentStudentIDs)
	assert.Equal(t, 2, records[3].VisitorsCount)

	students, err := repository.NewStudentRepository(target).ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestImportAssignsIDsAndSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	db := openBackupDB(t)

	snap := models.Snapshot{
		Students: []models.Student{{Name: "Sem ID", Active: true}},
		Records:  []models.AttendanceRecord{{Date: "not-a-date", ClassID: "c1"}},
	}
	data, err := json.Marshal(BackupData{Version: backupVersion, Snapshot: snap})
	require.NoError(t, err)

	summary, err := NewBackupService(db, testLogger).ImportFromReader(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Students)
	assert.Zero(t, summary.Records)
	require.Len(t, summary.Rejected, 1)
	assert.Equal(t, "attendance", summary.Rejected[0].Entity)

	students, err := repository.NewStudentRepository(db).ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Len(t, students[0].ID, 36)
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	db := openBackupDB(t)
	_, err := NewBackupService(db, testLogger).ImportFromReader(context.Background(), strings.NewReader("{"))
	assert.ErrorContains(t, err, "failed to decode backup")
}
