package reports

import (
	"sort"

	"ebdmanager/internal/models"

	"github.com/shopspring/decimal"
)

// AggregateClass summarises one class over a window using raw presence
// sums.
//
// EnrolledCount is the number of students active in the class right now,
// even for windows in the past. A student who changed class last month is
// counted in the new class for last year's report too.
func AggregateClass(classID string, records []models.AttendanceRecord, students []models.Student, w Window) models.ClassReportRow {
	row := models.ClassReportRow{
		ClassID:        classID,
		EnrolledCount:  enrolledIn(classID, students),
		TotalOfferings: decimal.Zero,
	}

	inClass := func(r models.AttendanceRecord) bool {
		return r.ClassID == classID && w.Contains(r.Date)
	}

	row.TotalPresent = RawPresence(records, inClass)
	for _, r := range records {
		if !inClass(r) {
			continue
		}
		row.Sessions++
		row.TotalVisitors += r.VisitorsCount
		row.TotalBibles += r.BiblesCount
		row.TotalMagazines += r.MagazinesCount
		row.TotalOfferings = row.TotalOfferings.Add(r.OfferingValue)
	}

	row.PotentialPresence = row.Sessions * row.EnrolledCount
	finishRow(&row)
	return row
}

// AggregateAll returns one row per class, in the order of classes, plus the
// overall row. The overall percentage is recomputed from the summed
// potential presence rather than averaged.
func AggregateAll(classes []models.ClassRoom, records []models.AttendanceRecord, students []models.Student, w Window) ([]models.ClassReportRow, models.ClassReportRow) {
	rows := make([]models.ClassReportRow, 0, len(classes))
	total := models.ClassReportRow{ClassName: "Total", TotalOfferings: decimal.Zero}

	for _, c := range classes {
		row := AggregateClass(c.ID, records, students, w)
		row.ClassName = c.Name
		rows = append(rows, row)

		total.EnrolledCount += row.EnrolledCount
		total.Sessions += row.Sessions
		total.PotentialPresence += row.PotentialPresence
		total.TotalPresent += row.TotalPresent
		total.TotalVisitors += row.TotalVisitors
		total.TotalBibles += row.TotalBibles
		total.TotalMagazines += row.TotalMagazines
		total.TotalOfferings = total.TotalOfferings.Add(row.TotalOfferings)
	}

	finishRow(&total)
	return rows, total
}

// RankClasses orders rows by percentage, highest first. Ties keep their
// input order.
func RankClasses(rows []models.ClassReportRow) []models.ClassReportRow {
	ranked := make([]models.ClassReportRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	return ranked
}

func finishRow(row *models.ClassReportRow) {
	row.TotalAbsent = row.PotentialPresence - row.TotalPresent
	if row.TotalAbsent < 0 {
		row.TotalAbsent = 0
	}
	row.TotalPV = row.TotalPresent + row.TotalVisitors
	row.Percentage = percentage(row.TotalPresent, row.PotentialPresence)
}

func enrolledIn(classID string, students []models.Student) int {
	if classID == "" {
		return 0
	}
	n := 0
	for _, s := range students {
		if s.Active && s.ClassID == classID {
			n++
		}
	}
	return n
}

// RawPresence sums the present-list lengths of the matching records.
func RawPresence(records []models.AttendanceRecord, match func(models.AttendanceRecord) bool) int {
	n := 0
	for _, r := range records {
		if match(r) {
			n += len(r.PresentStudentIDs)
		}
	}
	return n
}

type presenceKey struct {
	date      string
	studentID string
}

// UniquePresence counts distinct (date, student) pairs over the matching
// records. Feeding the same record twice does not change the result.
func UniquePresence(records []models.AttendanceRecord, match func(models.AttendanceRecord) bool) int {
	seen := make(map[presenceKey]struct{})
	for _, r := range records {
		if !match(r) {
			continue
		}
		day := normalizeDate(r.Date)
		for _, id := range r.PresentStudentIDs {
			seen[presenceKey{date: day, studentID: id}] = struct{}{}
		}
	}
	return len(seen)
}

// normalizeDate drops any time suffix so "2024-05-05" and
// "2024-05-05T10:00:00Z" land on the same key.
func normalizeDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
