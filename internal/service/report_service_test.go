package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/logging"
	"ebdmanager/internal/models"
	"ebdmanager/internal/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(store *fakeStore) *ReportService {
	defaults := models.ChurchSettings{ChurchName: "Igreja Central", LowFrequencyThreshold: 4}
	return NewReportService(newLoader(store), nil, defaults, nil, testLogger)
}

func march2024() reports.Window {
	return reports.NewWindow(calendar.Month, calendar.MustParse("2024-03-01"))
}

func TestReportServiceClassReport(t *testing.T) {
	svc := newReportService(&fakeStore{snap: fixture()})

	report, err := svc.ClassReport(context.Background(), march2024())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "Juniores", row.ClassName)
	assert.Equal(t, 4, row.Sessions)
	assert.Equal(t, 3, row.EnrolledCount)
	assert.Equal(t, 7, row.TotalPresent)
	assert.Equal(t, 5, row.TotalAbsent)
	assert.InDelta(t, 58.33, row.Percentage, 0.01)
	assert.Equal(t, row.TotalPresent, report.Total.TotalPresent)
}

func TestReportServiceStudentRanking(t *testing.T) {
	svc := newReportService(&fakeStore{snap: fixture()})

	rows, err := svc.StudentRanking(context.Background(), march2024(), reports.RankingFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"s1", "s2", "s3"}, []string{rows[0].StudentID, rows[1].StudentID, rows[2].StudentID})

	rows, err = svc.StudentRanking(context.Background(), march2024(), reports.RankingFilter{Name: "BRU"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "s2", rows[0].StudentID)
	assert.Equal(t, 1, rows[0].Position)
}

func TestReportServiceTrend(t *testing.T) {
	svc := newReportService(&fakeStore{snap: fixture()})

	buckets, err := svc.Trend(context.Background(), march2024())
	require.NoError(t, err)
	require.Len(t, buckets, 4)
	assert.Equal(t, "3", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Value)
	assert.Equal(t, "10", buckets[1].Label)
	assert.Equal(t, 1, buckets[1].Value)
}

func TestReportServiceDashboard(t *testing.T) {
	store := &fakeStore{snap: fixture()}
	defaults := models.ChurchSettings{ChurchName: "Igreja Central", LowFrequencyThreshold: 4}
	settings := fakeSettings{settings: models.ChurchSettings{ChurchName: "Assembleia Nova", LowFrequencyThreshold: 4}}
	svc := NewReportService(newLoader(store), settings, defaults, nil, testLogger)

	dash, err := svc.Dashboard(context.Background(), march2024())
	require.NoError(t, err)
	assert.Equal(t, "Assembleia Nova", dash.ChurchName)
	assert.Equal(t, 3, dash.KPIs.ActiveStudents)
	assert.Equal(t, 7, dash.KPIs.UniquePresence)
	assert.Equal(t, 3, dash.KPIs.Visitors)
	assert.Len(t, dash.Trend, 4)
	require.Len(t, dash.Birthdays, 1)
	assert.Equal(t, "s1", dash.Birthdays[0].StudentID)
	assert.Equal(t, 12, dash.Birthdays[0].Turning)
}

func TestReportServiceLogsRunWithComponent(t *testing.T) {
	var buf bytes.Buffer
	defaults := models.ChurchSettings{ChurchName: "Igreja Central", LowFrequencyThreshold: 4}
	svc := NewReportService(newLoader(&fakeStore{snap: fixture()}), nil, defaults, nil, logging.NewWithWriter(&buf, "info"))

	report, err := svc.ClassReport(context.Background(), march2024())
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "report_service", entry["component"])
	assert.Equal(t, "classes", entry["report"])
	assert.Equal(t, report.RunID, entry["run_id"])
}
