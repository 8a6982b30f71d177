package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one answer submission to one exercise. Rows are append-only:
// the submission service is the single writer and nothing ever updates or
// deletes them. All progress, unlock, and SRS state derives from this ledger.
type Attempt struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	ExerciseID     uuid.UUID
	LevelID        uuid.UUID
	CourseID       uuid.UUID
	Response       string
	IsCorrect      bool
	ScoreDelta     int
	IdempotencyKey *string
	SubmittedAt    time.Time
}

// LedgerSlice holds per-scope attempt aggregates computed in SQL.
type LedgerSlice struct {
	TotalAttempts      int
	CorrectAttempts    int
	DistinctExercises  int // exercises with at least one attempt
	CorrectedExercises int // exercises with at least one correct attempt
	TotalPoints        int // sum of positive score deltas
}

// Accuracy returns correct/total as a percentage, 0 when there are no
// attempts (never NaN).
func (s LedgerSlice) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.CorrectAttempts) / float64(s.TotalAttempts) * 100
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	Rank             int
	UserID           uuid.UUID
	Username         string
	TotalPoints      int
	TotalCorrect     int
	TotalAttempts    int
	Accuracy         float64
	CompletedCourses int
}
