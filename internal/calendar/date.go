// Package calendar works on plain calendar dates (year, month, day) with no
// time-of-day or time zone component.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day. Month is 1-12.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses an ISO date. A full RFC3339 timestamp is accepted too, but
// only its leading date part is kept; the clock and offset are ignored.
func ParseDate(s string) (Date, error) {
	if len(s) < 10 || (len(s) > 10 && s[10] != 'T' && s[10] != ' ') {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	y, errY := strconv.Atoi(s[0:4])
	m, errM := strconv.Atoi(s[5:7])
	d, errD := strconv.Atoi(s[8:10])
	if errY != nil || errM != nil || errD != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	date := Date{Year: y, Month: m, Day: d}
	if !date.Valid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// MustParse is ParseDate for literals known to be valid.
func MustParse(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Valid reports whether the triple names a real day of the Gregorian calendar.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Year < 1 {
		return false
	}
	return d.Day <= d.DaysInMonth()
}

// Time returns the day at 12:00 UTC. Pinning to midday keeps day arithmetic
// clear of DST transitions.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the date's month.
func (d Date) DaysInMonth() int {
	return time.Date(d.Year, time.Month(d.Month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// Quarter returns 1-4.
func (d Date) Quarter() int {
	return (d.Month-1)/3 + 1
}

// QuarterMonths returns the three months (1-12) of the date's quarter.
func (d Date) QuarterMonths() [3]int {
	first := (d.Quarter()-1)*3 + 1
	return [3]int{first, first + 1, first + 2}
}

// AddDays returns a new date n days away.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths returns a new date n months away. The day is clamped to the
// length of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	total := d.Year*12 + (d.Month - 1) + n
	out := Date{Year: total / 12, Month: total%12 + 1, Day: 1}
	if last := out.DaysInMonth(); d.Day > last {
		out.Day = last
	} else {
		out.Day = d.Day
	}
	return out
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
