package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandRecurrence(t *testing.T) {
	tests := []struct {
		name     string
		anchor   time.Time
		end      time.Time
		weekdays []time.Weekday
		want     []time.Time
	}{
		{
			name:     "mondays and wednesdays over two weeks",
			anchor:   date(2024, time.May, 6),
			end:      date(2024, time.May, 20),
			weekdays: []time.Weekday{time.Monday, time.Wednesday},
			want: []time.Time{
				date(2024, time.May, 6),
				date(2024, time.May, 8),
				date(2024, time.May, 13),
				date(2024, time.May, 15),
				date(2024, time.May, 20),
			},
		},
		{
			name:     "empty weekday set",
			anchor:   date(2024, time.May, 6),
			end:      date(2024, time.May, 20),
			weekdays: nil,
			want:     []time.Time{},
		},
		{
			name:     "end before anchor",
			anchor:   date(2024, time.May, 20),
			end:      date(2024, time.May, 6),
			weekdays: []time.Weekday{time.Monday},
			want:     []time.Time{},
		},
		{
			name:     "anchor weekday not selected",
			anchor:   date(2024, time.May, 7),
			end:      date(2024, time.May, 13),
			weekdays: []time.Weekday{time.Monday},
			want:     []time.Time{date(2024, time.May, 13)},
		},
		{
			name:     "time of day ignored",
			anchor:   time.Date(2024, time.May, 6, 15, 0, 0, 0, time.UTC),
			end:      time.Date(2024, time.May, 6, 1, 0, 0, 0, time.UTC),
			weekdays: []time.Weekday{time.Monday},
			want:     []time.Time{date(2024, time.May, 6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandRecurrence(tt.anchor, tt.end, tt.weekdays, DefaultMaxRecurrenceDays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandRecurrence_Bound(t *testing.T) {
	anchor := date(2024, time.January, 1)

	_, err := ExpandRecurrence(anchor, anchor.AddDate(0, 0, 1000), []time.Weekday{time.Monday}, 1000)
	assert.ErrorIs(t, err, ErrRecurrenceTooLong)

	dates, err := ExpandRecurrence(anchor, anchor.AddDate(0, 0, 999), []time.Weekday{time.Monday}, 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, dates)
}

func TestExpandRecurrence_AscendingWithinRange(t *testing.T) {
	anchor := date(2024, time.March, 1)
	end := date(2024, time.June, 30)
	weekdays := []time.Weekday{time.Friday, time.Tuesday}

	dates, err := ExpandRecurrence(anchor, end, weekdays, DefaultMaxRecurrenceDays)
	require.NoError(t, err)
	require.NotEmpty(t, dates)

	for i, d := range dates {
		assert.False(t, d.Before(anchor))
		assert.False(t, d.After(end))
		assert.Contains(t, weekdays, d.Weekday())
		if i > 0 {
			assert.True(t, dates[i-1].Before(d))
		}
	}
}
