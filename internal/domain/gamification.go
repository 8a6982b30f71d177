package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyChallenge is the single challenge record for one calendar day (UTC).
type DailyChallenge struct {
	ID           uuid.UUID
	Date         string // YYYY-MM-DD
	Type         ChallengeType
	TargetValue  int
	PointsReward int
	Description  string
	CreatedAt    time.Time
}

// ChallengeProgress tracks one user's progress on one daily challenge.
// Completed is monotonic: once true it never reverts.
type ChallengeProgress struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ChallengeID  uuid.UUID
	CurrentValue int
	Completed    bool
	CompletedAt  *time.Time
}

// Achievement is a badge definition from the achievements catalog.
type Achievement struct {
	ID               uuid.UUID
	Code             string
	Name             string
	Description      *string
	Category         string
	RequirementValue int
	PointsReward     int
	CreatedAt        time.Time
}

// UserAchievement records that a user earned an achievement.
type UserAchievement struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AchievementID uuid.UUID
	EarnedAt      time.Time
}
