package reports

import (
	"testing"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKPIs(t *testing.T) {
	students := []models.Student{
		student("a", "adults", true),
		student("b", "adults", true),
		student("c", "youth", true),
		student("d", "youth", false),
	}
	classes := []models.ClassRoom{{ID: "adults"}, {ID: "youth"}}
	teachers := []models.Teacher{{ID: "t1", Active: true}, {ID: "t2", Active: false}}

	r1 := record("2024-04-07", "adults", "a", "b")
	r1.VisitorsCount = 2
	r1.OfferingValue = decimal.RequireFromString("10.00")
	r2 := record("2024-04-07", "youth", "c")
	r2.OfferingValue = decimal.RequireFromString("3.30")
	r3 := record("2024-03-31", "youth", "c")

	records := []models.AttendanceRecord{r1, r2, r1, r3}
	kpi := KPIs(students, classes, teachers, records, window(calendar.Month, "2024-04-20"))

	assert.Equal(t, 3, kpi.ActiveStudents)
	assert.Equal(t, 2, kpi.Classes)
	assert.Equal(t, 1, kpi.ActiveTeachers)
	assert.Equal(t, 3, kpi.Sessions)
	assert.Equal(t, 3, kpi.UniquePresence, "the duplicated record is counted once")
	assert.Equal(t, 4, kpi.Visitors)
	assert.True(t, decimal.RequireFromString("23.30").Equal(kpi.Offerings))
	// potential = 2 + 1 + 2
	assert.InDelta(t, 60.0, kpi.AttendanceRate, 1e-9)
}

func TestKPIsEmpty(t *testing.T) {
	kpi := KPIs(nil, nil, nil, nil, window(calendar.Year, "2024-01-01"))
	assert.Equal(t, 0.0, kpi.AttendanceRate)
	assert.True(t, kpi.Offerings.IsZero())
}

func TestBirthdaysInMonth(t *testing.T) {
	students := []models.Student{
		{ID: "1", Name: "Late", BirthDate: "2010-03-28", Active: true},
		{ID: "2", Name: "Early", BirthDate: "1990-03-02", Active: true},
		{ID: "3", Name: "Inactive", BirthDate: "2000-03-10", Active: false},
		{ID: "4", Name: "Other month", BirthDate: "2000-04-10", Active: true},
		{ID: "5", Name: "Broken", BirthDate: "03/15/2001", Active: true},
		{ID: "6", Name: "Unknown", Active: true},
	}

	got := BirthdaysInMonth(students, 3, 2024)

	require.Len(t, got, 2)
	assert.Equal(t, "Early", got[0].Name)
	assert.Equal(t, 2, got[0].Day)
	assert.Equal(t, 34, got[0].Turning)
	assert.Equal(t, "Late", got[1].Name)
	assert.Equal(t, 14, got[1].Turning)
}
