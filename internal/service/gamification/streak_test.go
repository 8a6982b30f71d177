package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	sameDayEarlier := now.Add(-6 * time.Hour)
	threeDaysAgo := now.AddDate(0, 0, -3)

	tests := []struct {
		name        string
		current     int
		longest     int
		last        *time.Time
		wantCurrent int
		wantLongest int
	}{
		{"first activity ever", 0, 0, nil, 1, 1},
		{"same day no change", 4, 6, &sameDayEarlier, 4, 6},
		{"yesterday increments", 4, 6, &yesterday, 5, 6},
		{"yesterday raises longest", 6, 6, &yesterday, 7, 7},
		{"gap resets", 4, 6, &threeDaysAgo, 1, 6},
		{"first activity keeps older longest", 0, 9, nil, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := advanceStreak(tt.current, tt.longest, tt.last, now)
			assert.Equal(t, tt.wantCurrent, current)
			assert.Equal(t, tt.wantLongest, longest)
		})
	}
}

func TestAdvanceStreak_UTCDayBoundary(t *testing.T) {
	// 23:30 yesterday and 00:30 today are consecutive UTC days
	last := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)

	current, longest := advanceStreak(2, 2, &last, now)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
}

func TestAdvanceStreak_LongestNeverDecreases(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, longest := advanceStreak(15, 15, &last, now)
	assert.Equal(t, 15, longest)
}
