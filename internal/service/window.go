package service

import (
	"errors"
	"fmt"
	"strings"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/reports"
)

// ErrInvalidWindow is returned when a granularity or reference date cannot
// be parsed.
var ErrInvalidWindow = errors.New("invalid report window")

// ParseWindow builds a report window from user input. An empty date means
// today.
func ParseWindow(granularity, date string, today calendar.Date) (reports.Window, error) {
	g, err := calendar.ParseGranularity(granularity)
	if err != nil {
		return reports.Window{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	ref := today
	if strings.TrimSpace(date) != "" {
		ref, err = calendar.ParseDate(date)
		if err != nil {
			return reports.Window{}, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
		}
	}

	return reports.NewWindow(g, ref), nil
}
