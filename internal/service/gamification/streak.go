package gamification

import (
	"time"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// advanceStreak computes the streak counters after an activity at now.
// Calendar days are compared in UTC. Same-day activity leaves the streak
// unchanged, consecutive-day activity extends it, anything else resets to 1.
// longest never decreases.
func advanceStreak(current, longest int, lastActivity *time.Time, now time.Time) (newCurrent, newLongest int) {
	today := now.UTC().Truncate(24 * time.Hour)

	if lastActivity == nil {
		newCurrent = 1
	} else {
		last := lastActivity.UTC().Truncate(24 * time.Hour)
		switch {
		case last.Equal(today):
			newCurrent = current
		case last.Equal(today.AddDate(0, 0, -1)):
			newCurrent = current + 1
		default:
			newCurrent = 1
		}
	}

	newLongest = longest
	if newCurrent > newLongest {
		newLongest = newCurrent
	}

	return newCurrent, newLongest
}

func streakInfo(u domain.User) domain.StreakInfo {
	return domain.StreakInfo{
		CurrentStreak:    u.CurrentStreak,
		LongestStreak:    u.LongestStreak,
		LastActivityDate: u.LastActivityDate,
	}
}
