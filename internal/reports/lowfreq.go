package reports

import (
	"sort"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"
)

// DefaultLowFrequencyThreshold is the number of consecutive absences after
// which a student is considered inactive.
const DefaultLowFrequencyThreshold = 4

// LowFrequencyPolicy decides which students to deactivate for missing too
// many sessions in a row.
type LowFrequencyPolicy struct {
	Threshold int
}

// NewLowFrequencyPolicy returns a policy with the given threshold, or the
// default one when threshold is not positive.
func NewLowFrequencyPolicy(threshold int) LowFrequencyPolicy {
	if threshold <= 0 {
		threshold = DefaultLowFrequencyThreshold
	}
	return LowFrequencyPolicy{Threshold: threshold}
}

// Streaks returns, for each active student, the number of consecutive
// sessions of their class they missed, counting back from the most recent
// one and stopping at the first session they attended. Justified absences
// count as absences. Records with unparseable dates are ignored.
func (p LowFrequencyPolicy) Streaks(students []models.Student, records []models.AttendanceRecord) []models.AbsenceStreak {
	threshold := p.Threshold
	if threshold <= 0 {
		threshold = DefaultLowFrequencyThreshold
	}

	history := historyByClass(records)

	streaks := make([]models.AbsenceStreak, 0, len(students))
	for _, s := range students {
		if !s.Active {
			continue
		}
		n := 0
		if s.ClassID != "" {
			n = consecutiveAbsences(s.ID, history[s.ClassID])
		}
		streaks = append(streaks, models.AbsenceStreak{
			StudentID:           s.ID,
			StudentName:         s.Name,
			ClassID:             s.ClassID,
			ConsecutiveAbsences: n,
			Flagged:             n >= threshold,
		})
	}
	return streaks
}

// Evaluate returns one deactivation intent per flagged student. It performs
// no writes.
func (p LowFrequencyPolicy) Evaluate(students []models.Student, records []models.AttendanceRecord) []models.DeactivationIntent {
	return Intents(p.Streaks(students, records))
}

// Intents turns the flagged streaks into deactivation intents, in order.
func Intents(streaks []models.AbsenceStreak) []models.DeactivationIntent {
	var intents []models.DeactivationIntent
	for _, st := range streaks {
		if !st.Flagged {
			continue
		}
		intents = append(intents, models.DeactivationIntent{
			StudentID:           st.StudentID,
			NewActiveState:      false,
			ConsecutiveAbsences: st.ConsecutiveAbsences,
		})
	}
	return intents
}

// historyByClass groups parseable records by class, most recent first.
func historyByClass(records []models.AttendanceRecord) map[string][]datedRecord {
	history := make(map[string][]datedRecord)
	for _, r := range records {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			continue
		}
		history[r.ClassID] = append(history[r.ClassID], datedRecord{date: d, rec: r})
	}
	for _, list := range history {
		sort.SliceStable(list, func(i, j int) bool { return list[j].date.Before(list[i].date) })
	}
	return history
}

func consecutiveAbsences(studentID string, newestFirst []datedRecord) int {
	n := 0
	for _, dr := range newestFirst {
		if dr.rec.IsPresent(studentID) {
			break
		}
		n++
	}
	return n
}
