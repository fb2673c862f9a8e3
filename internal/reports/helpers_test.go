package reports

import (
	"fmt"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"

	"github.com/shopspring/decimal"
)

func student(id, classID string, active bool) models.Student {
	return models.Student{ID: id, Name: "Student " + id, ClassID: classID, Active: active}
}

func record(date, classID string, present ...string) models.AttendanceRecord {
	return models.AttendanceRecord{
		Date:              date,
		ClassID:           classID,
		PresentStudentIDs: present,
		OfferingValue:     decimal.Zero,
	}
}

func studentsIn(classID string, n int) []models.Student {
	out := make([]models.Student, n)
	for i := range out {
		out[i] = student(fmt.Sprintf("%s-%d", classID, i+1), classID, true)
	}
	return out
}

func ids(students []models.Student, n int) []string {
	out := make([]string, 0, n)
	for _, s := range students[:n] {
		out = append(out, s.ID)
	}
	return out
}

func window(g calendar.Granularity, ref string) Window {
	return NewWindow(g, calendar.MustParse(ref))
}
