package reports

import (
	"iter"
	"slices"
	"sort"
	"strconv"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/models"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// datedRecord pairs a record with its parsed date. Records whose date does
// not parse are left out of every series.
type datedRecord struct {
	date calendar.Date
	rec  models.AttendanceRecord
}

func parseAll(records []models.AttendanceRecord) []datedRecord {
	out := make([]datedRecord, 0, len(records))
	for _, r := range records {
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			continue
		}
		out = append(out, datedRecord{date: d, rec: r})
	}
	return out
}

func uniqueWhere(dated []datedRecord, match func(datedRecord) bool) int {
	seen := make(map[presenceKey]struct{})
	for _, dr := range dated {
		if !match(dr) {
			continue
		}
		day := dr.date.String()
		for _, id := range dr.rec.PresentStudentIDs {
			seen[presenceKey{date: day, studentID: id}] = struct{}{}
		}
	}
	return len(seen)
}

// Trend yields the chart series for granularity g around ref:
//
//   - Year: twelve monthly buckets of ref's year.
//   - Quarter: the three months of ref's quarter.
//   - Month: one bucket per day of ref's month that has at least one
//     record, in day order. Days without records are omitted.
//   - Day: one bucket per class, in the order of classes, with visitors
//     attached. A class with no record on ref scores 0.
//
// Values are unique presence counts. Each range over the sequence
// recomputes from records; nothing is carried between iterations.
func Trend(records []models.AttendanceRecord, classes []models.ClassRoom, g calendar.Granularity, ref calendar.Date) iter.Seq[models.TrendBucket] {
	return func(yield func(models.TrendBucket) bool) {
		dated := parseAll(records)

		switch g {
		case calendar.Year:
			for m := 1; m <= 12; m++ {
				if !yield(monthBucket(dated, ref.Year, m)) {
					return
				}
			}

		case calendar.Quarter:
			for _, m := range ref.QuarterMonths() {
				if !yield(monthBucket(dated, ref.Year, m)) {
					return
				}
			}

		case calendar.Month:
			for _, day := range recordedDays(dated, ref) {
				value := uniqueWhere(dated, func(dr datedRecord) bool { return dr.date == day })
				if !yield(models.TrendBucket{Label: strconv.Itoa(day.Day), Value: value}) {
					return
				}
			}

		case calendar.Day:
			for _, c := range classes {
				visitors := 0
				value := uniqueWhere(dated, func(dr datedRecord) bool {
					if dr.rec.ClassID != c.ID || dr.date != ref {
						return false
					}
					visitors += dr.rec.VisitorsCount
					return true
				})
				if !yield(models.TrendBucket{Label: c.Name, Value: value, Visitors: &visitors}) {
					return
				}
			}
		}
	}
}

// BuildTrend collects Trend into a slice.
func BuildTrend(records []models.AttendanceRecord, classes []models.ClassRoom, g calendar.Granularity, ref calendar.Date) []models.TrendBucket {
	return slices.Collect(Trend(records, classes, g, ref))
}

func monthBucket(dated []datedRecord, year, month int) models.TrendBucket {
	value := uniqueWhere(dated, func(dr datedRecord) bool {
		return dr.date.Year == year && dr.date.Month == month
	})
	return models.TrendBucket{Label: monthLabels[month-1], Value: value}
}

func recordedDays(dated []datedRecord, ref calendar.Date) []calendar.Date {
	seen := make(map[calendar.Date]struct{})
	var days []calendar.Date
	for _, dr := range dated {
		if dr.date.Year != ref.Year || dr.date.Month != ref.Month {
			continue
		}
		if _, ok := seen[dr.date]; ok {
			continue
		}
		seen[dr.date] = struct{}{}
		days = append(days, dr.date)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
