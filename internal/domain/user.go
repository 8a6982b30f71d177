package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
// Streak counters live on the user row because they are 1:1 and mutated on
// every scoring day; LastActivityDate is nil until the first attempt.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         UserRole
	IsActive     bool

	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StreakInfo is the streak view returned to clients.
type StreakInfo struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time
}
