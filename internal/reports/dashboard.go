package reports

import (
	"sort"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"

	"github.com/shopspring/decimal"
)

// KPIs computes the dashboard cards for a window. Presence here is the
// unique (date, student) count, and the attendance rate divides it by the
// sum of current enrollment over every session held in the window.
func KPIs(students []models.Student, classes []models.ClassRoom, teachers []models.Teacher, records []models.AttendanceRecord, w Window) models.DashboardKPIs {
	kpi := models.DashboardKPIs{
		Classes:   len(classes),
		Offerings: decimal.Zero,
	}

	enrolled := make(map[string]int)
	for _, s := range students {
		if !s.Active {
			continue
		}
		kpi.ActiveStudents++
		if s.ClassID != "" {
			enrolled[s.ClassID]++
		}
	}
	for _, t := range teachers {
		if t.Active {
			kpi.ActiveTeachers++
		}
	}

	potential := 0
	for _, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		kpi.Sessions++
		kpi.Visitors += r.VisitorsCount
		kpi.Offerings = kpi.Offerings.Add(r.OfferingValue)
		potential += enrolled[r.ClassID]
	}

	kpi.UniquePresence = UniquePresence(records, func(r models.AttendanceRecord) bool {
		return w.Contains(r.Date)
	})
	kpi.AttendanceRate = percentage(kpi.UniquePresence, potential)
	return kpi
}

// BirthdaysInMonth lists active students born in month (1-12), ordered by
// day. Turning is the age reached in year. Students without a parseable
// birth date are skipped.
func BirthdaysInMonth(students []models.Student, month, year int) []models.Birthday {
	var out []models.Birthday
	for _, s := range students {
		if !s.Active || s.BirthDate == "" {
			continue
		}
		born, err := calendar.ParseDate(s.BirthDate)
		if err != nil || born.Month != month {
			continue
		}
		out = append(out, models.Birthday{
			StudentID: s.ID,
			Name:      s.Name,
			ClassID:   s.ClassID,
			Day:       born.Day,
			Turning:   year - born.Year,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
