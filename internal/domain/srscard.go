package domain

import (
	"time"

	"github.com/google/uuid"
)

// SRS algorithm bounds. MinEaseFactor is the SM-2 floor: below it every
// interval collapses toward daily review and the schedule stops spacing.
const (
	MinEaseFactor     = 1.3
	DefaultEaseFactor = 2.5
)

// SRSCard is one spaced-repetition card per (user, exercise). Created lazily
// on the first incorrect attempt; never deleted. Mutated only by the SRS
// scheduler.
type SRSCard struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ExerciseID uuid.UUID
	Word       string // the lexical item being practiced

	EaseFactor   float64 // >= MinEaseFactor
	IntervalDays int     // >= 1
	Repetitions  int     // consecutive successful reviews

	NextReviewDate time.Time
	LastReviewedAt *time.Time

	TotalReviews   int
	CorrectReviews int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDue reports whether the card should be reviewed at the given time.
func (c *SRSCard) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}

// SRSConfig holds spaced-repetition scheduling parameters (pure domain type).
type SRSConfig struct {
	DefaultEaseFactor float64
	MinEaseFactor     float64
	MaxIntervalDays   int
	FirstReviewDelay  time.Duration // delay before the first review of a fresh card
	DueLimitDefault   int           // due-card page size when the caller passes limit<=0
	DueLimitMax       int
}

// SRSUpdateParams holds the card fields the scheduler writes after a review.
type SRSUpdateParams struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewDate time.Time
	LastReviewedAt time.Time
	WasCorrect     bool
}

// SRSStats holds per-user review statistics computed in SQL.
type SRSStats struct {
	TotalCards     int
	DueCards       int
	TotalReviews   int
	CorrectReviews int
	Accuracy       float64 // 0 when TotalReviews == 0, never NaN
}
