package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		last        time.Time
		today       time.Time
		want        int
		wantChanged bool
	}{
		{
			name:        "first completion ever",
			current:     0,
			last:        time.Time{},
			today:       day("2024-03-10"),
			want:        1,
			wantChanged: true,
		},
		{
			name:        "same day is a no-op",
			current:     4,
			last:        day("2024-03-10"),
			today:       day("2024-03-10"),
			want:        4,
			wantChanged: false,
		},
		{
			name:        "consecutive day extends",
			current:     4,
			last:        day("2024-03-10"),
			today:       day("2024-03-11"),
			want:        5,
			wantChanged: true,
		},
		{
			name:        "two day gap resets",
			current:     4,
			last:        day("2024-03-10"),
			today:       day("2024-03-12"),
			want:        1,
			wantChanged: true,
		},
		{
			name:        "long gap resets",
			current:     30,
			last:        day("2024-01-01"),
			today:       day("2024-03-12"),
			want:        1,
			wantChanged: true,
		},
		{
			name:        "month boundary counts as consecutive",
			current:     2,
			last:        day("2024-02-29"),
			today:       day("2024-03-01"),
			want:        3,
			wantChanged: true,
		},
		{
			name:        "year boundary counts as consecutive",
			current:     9,
			last:        day("2023-12-31"),
			today:       day("2024-01-01"),
			want:        10,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := nextStreak(tt.current, tt.last, tt.today)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestNextStreak_IdempotentSameDay(t *testing.T) {
	// Calling twice on the same day must not double-increment.
	today := day("2024-03-11")
	first, changed := nextStreak(4, day("2024-03-10"), today)
	assert.True(t, changed)
	assert.Equal(t, 5, first)

	second, changed := nextStreak(first, today, today)
	assert.False(t, changed)
	assert.Equal(t, 5, second)
}
