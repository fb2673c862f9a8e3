package calendar

import (
	"fmt"
	"strings"
)

// Granularity selects the size of a reporting window.
type Granularity string

const (
	Day     Granularity = "day"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// ParseGranularity accepts the English names and the Portuguese ones used by
// the school secretary screens (dia, mes, trimestre, ano).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "dia":
		return Day, nil
	case "month", "mes", "mês":
		return Month, nil
	case "quarter", "trimestre":
		return Quarter, nil
	case "year", "ano":
		return Year, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// Contains reports whether date falls in the window of size g around ref.
func (g Granularity) Contains(date, ref Date) bool {
	switch g {
	case Day:
		return date == ref
	case Month:
		return date.Year == ref.Year && date.Month == ref.Month
	case Quarter:
		return date.Year == ref.Year && date.Quarter() == ref.Quarter()
	case Year:
		return date.Year == ref.Year
	}
	return false
}

// InWindow is the string form of Contains used on raw attendance dates.
// An unparseable date matches no window.
func InWindow(recordDate string, g Granularity, ref Date) bool {
	date, err := ParseDate(recordDate)
	if err != nil {
		return false
	}
	return g.Contains(date, ref)
}

// Bounds returns the first and last day of the window of size g around ref.
func (g Granularity) Bounds(ref Date) (Date, Date) {
	switch g {
	case Month:
		start := Date{Year: ref.Year, Month: ref.Month, Day: 1}
		return start, Date{Year: ref.Year, Month: ref.Month, Day: start.DaysInMonth()}
	case Quarter:
		months := ref.QuarterMonths()
		start := Date{Year: ref.Year, Month: months[0], Day: 1}
		end := Date{Year: ref.Year, Month: months[2], Day: 1}
		end.Day = end.DaysInMonth()
		return start, end
	case Year:
		return Date{Year: ref.Year, Month: 1, Day: 1}, Date{Year: ref.Year, Month: 12, Day: 31}
	}
	return ref, ref
}

// Shift moves ref by n windows of size g, e.g. to step the report screen to
// the previous or next quarter.
func (g Granularity) Shift(ref Date, n int) Date {
	switch g {
	case Month:
		return ref.AddMonths(n)
	case Quarter:
		return ref.AddMonths(3 * n)
	case Year:
		return ref.AddMonths(12 * n)
	}
	return ref.AddDays(n)
}
