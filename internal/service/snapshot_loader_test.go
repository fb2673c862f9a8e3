package service

import (
	"context"
	"errors"
	"testing"

	"ebdmanager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotLoaderLoadsAllCollections(t *testing.T) {
	store := &fakeStore{snap: fixture()}

	snap, err := newLoader(store).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Students, 3)
	assert.Len(t, snap.Classes, 1)
	assert.Len(t, snap.Teachers, 1)
	assert.Len(t, snap.Records, 4)
}

func TestSnapshotLoaderDropsInvalidRows(t *testing.T) {
	snap := fixture()
	snap.Students = append(snap.Students, models.Student{ID: "s4", Name: ""})
	snap.Records = append(snap.Records,
		models.AttendanceRecord{Date: "2024-13-40", ClassID: "c1"},
		models.AttendanceRecord{Date: "2024-03-31", ClassID: "c1", PresentStudentIDs: []string{"s1", "s1"}},
	)
	store := &fakeStore{snap: snap}

	got, err := newLoader(store).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Students, 3)
	require.Len(t, got.Records, 5)
	assert.Equal(t, []string{"s1"}, got.Records[4].PresentStudentIDs)
}

func TestSnapshotLoaderPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	store := &fakeStore{snap: fixture(), err: boom}

	_, err := newLoader(store).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to load students")
}
