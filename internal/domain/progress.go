package domain

import (
	"time"

	"github.com/google/uuid"
)

// LevelProgress is derived per (user, level) from the attempt ledger.
// Never independently authoritative: recomputing from the same ledger must
// yield the same value. Invariant: Completed implies
// AccuracyPercentage >= the level's required score.
type LevelProgress struct {
	UserID             uuid.UUID
	LevelID            uuid.UUID
	CompletedExercises int
	TotalExercises     int
	AccuracyPercentage float64
	TotalPoints        int
	Stars              int
	Completed          bool
}

// CourseProgress is the denormalized per (user, course) aggregate stored in
// course_progress. Stale is set when a recompute after an attempt write
// failed; readers must recompute before trusting a stale row.
type CourseProgress struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	CourseID           uuid.UUID
	TotalExercises     int
	CompletedExercises int
	CorrectAnswers     int
	TotalPoints        int
	AccuracyPercentage float64
	IsCompleted        bool
	IsUnlocked         bool
	Stale              bool
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CourseState is a course decorated with the requesting user's progress and
// unlock flag, as served by GET /classes/{id}/courses.
type CourseState struct {
	Course   Course
	Enabled  bool
	Progress CourseProgress
}

// ClassState is a class decorated with the requesting user's unlock state
// and completion percentage, as served by GET /classes.
type ClassState struct {
	Class           Class
	State           UnlockState
	ProgressPercent float64 // completed-course ratio, 0..100
}

// Unlocked reports whether the class is reachable (UNLOCKED or COMPLETED).
func (s ClassState) Unlocked() bool {
	return s.State != UnlockStateLocked
}
