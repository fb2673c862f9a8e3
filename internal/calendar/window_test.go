package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInWindow(t *testing.T) {
	ref := Date{2024, 5, 15}

	tests := []struct {
		name string
		date string
		g    Granularity
		want bool
	}{
		{name: "day exact", date: "2024-05-15", g: Day, want: true},
		{name: "day other", date: "2024-05-14", g: Day, want: false},
		{name: "day with timestamp suffix", date: "2024-05-15T09:00:00Z", g: Day, want: true},
		{name: "month same", date: "2024-05-01", g: Month, want: true},
		{name: "month other year", date: "2023-05-15", g: Month, want: false},
		{name: "quarter first month", date: "2024-04-01", g: Quarter, want: true},
		{name: "quarter last day", date: "2024-06-30", g: Quarter, want: true},
		{name: "quarter previous", date: "2024-03-31", g: Quarter, want: false},
		{name: "quarter same months other year", date: "2023-05-15", g: Quarter, want: false},
		{name: "year start", date: "2024-01-01", g: Year, want: true},
		{name: "year other", date: "2025-01-01", g: Year, want: false},
		{name: "malformed never matches", date: "15/05/2024", g: Year, want: false},
		{name: "empty never matches", date: "", g: Day, want: false},
		{name: "unknown granularity", date: "2024-05-15", g: Granularity("week"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(tt.date, tt.g, ref))
		})
	}
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{
		"day": Day, "DIA": Day, "month": Month, "mes": Month, "mês": Month,
		"quarter": Quarter, "Trimestre": Quarter, "year": Year, " ano ": Year,
	} {
		got, err := ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseGranularity("week")
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	ref := Date{2024, 8, 20}

	start, end := Quarter.Bounds(ref)
	assert.Equal(t, Date{2024, 7, 1}, start)
	assert.Equal(t, Date{2024, 9, 30}, end)

	start, end = Month.Bounds(Date{2024, 2, 10})
	assert.Equal(t, Date{2024, 2, 1}, start)
	assert.Equal(t, Date{2024, 2, 29}, end)

	start, end = Year.Bounds(ref)
	assert.Equal(t, Date{2024, 1, 1}, start)
	assert.Equal(t, Date{2024, 12, 31}, end)

	start, end = Day.Bounds(ref)
	assert.Equal(t, ref, start)
	assert.Equal(t, ref, end)
}

func TestShift(t *testing.T) {
	ref := Date{2024, 1, 31}
	assert.Equal(t, Date{2023, 10, 31}, Quarter.Shift(ref, -1))
	assert.Equal(t, Date{2024, 2, 29}, Month.Shift(ref, 1))
	assert.Equal(t, Date{2025, 1, 31}, Year.Shift(ref, 1))
	assert.Equal(t, Date{2024, 1, 24}, Day.Shift(ref, -7))
}
