package reports

import (
	"sort"
	"strings"

	"ebdmanager/internal/models"
)

// RankStudents scores every active student against the sessions their
// current class held in the window and orders them by percentage, then by
// present count. Remaining ties keep the order of students.
func RankStudents(students []models.Student, records []models.AttendanceRecord, classes []models.ClassRoom, w Window) []models.StudentRankRow {
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	sessions := make(map[string][]models.AttendanceRecord)
	for _, r := range records {
		if w.Contains(r.Date) {
			sessions[r.ClassID] = append(sessions[r.ClassID], r)
		}
	}

	rows := make([]models.StudentRankRow, 0, len(students))
	for _, s := range students {
		if !s.Active {
			continue
		}
		var held []models.AttendanceRecord
		if s.ClassID != "" {
			held = sessions[s.ClassID]
		}

		present := 0
		for _, r := range held {
			if r.IsPresent(s.ID) {
				present++
			}
		}

		rows = append(rows, models.StudentRankRow{
			StudentID:    s.ID,
			StudentName:  s.Name,
			ClassID:      s.ClassID,
			ClassName:    classNames[s.ClassID],
			PresentCount: present,
			TotalClasses: len(held),
			Percentage:   percentage(present, len(held)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percentage != rows[j].Percentage {
			return rows[i].Percentage > rows[j].Percentage
		}
		return rows[i].PresentCount > rows[j].PresentCount
	})
	numberRows(rows)
	return rows
}

// RankingFilter narrows a ranking. Empty fields match everything.
type RankingFilter struct {
	Name    string
	ClassID string
}

// FilterRanking keeps the rows matching f, preserving their order, and
// renumbers positions from 1 within the filtered list. Global positions are
// not kept.
func FilterRanking(rows []models.StudentRankRow, f RankingFilter) []models.StudentRankRow {
	query := strings.ToLower(strings.TrimSpace(f.Name))
	out := make([]models.StudentRankRow, 0, len(rows))
	for _, r := range rows {
		if f.ClassID != "" && r.ClassID != f.ClassID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.StudentName), query) {
			continue
		}
		out = append(out, r)
	}
	numberRows(out)
	return out
}

func numberRows(rows []models.StudentRankRow) {
	for i := range rows {
		rows[i].Position = i + 1
	}
}
