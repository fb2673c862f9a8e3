package reports

import (
	"ebdmanager/internal/calendar"
)

// Window is a reporting period: the day, month, quarter or year that
// contains Reference.
type Window struct {
	Granularity calendar.Granularity `json:"granularity"`
	Reference   calendar.Date        `json:"reference"`
}

// NewWindow builds a window.
func NewWindow(g calendar.Granularity, ref calendar.Date) Window {
	return Window{Granularity: g, Reference: ref}
}

// Contains reports whether a raw record date falls in the window.
func (w Window) Contains(date string) bool {
	return calendar.InWindow(date, w.Granularity, w.Reference)
}

// percentage returns part/whole*100, clamped to [0, 100]. A zero or negative
// whole yields 0.
func percentage(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	p := float64(part) / float64(whole) * 100
	if p > 100 {
		return 100
	}
	return p
}
