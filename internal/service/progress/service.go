// Package progress derives level and course progress from the attempt
// ledger. Derived values are never authoritative: recomputing from the same
// ledger always yields the same result.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

type attemptRepo interface {
	AggregateByLevel(ctx context.Context, userID, levelID uuid.UUID) (domain.LedgerSlice, error)
	AggregateByCourse(ctx context.Context, userID, courseID uuid.UUID) (domain.LedgerSlice, error)
}

type catalogRepo interface {
	GetLevel(ctx context.Context, id uuid.UUID) (domain.Level, error)
	GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, error)
	CountExercisesByLevel(ctx context.Context, levelID uuid.UUID) (int, error)
	CountExercisesByCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type progressRepo interface {
	Get(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error)
	Upsert(ctx context.Context, p domain.CourseProgress) error
	MarkStale(ctx context.Context, userID, courseID uuid.UUID) error
	CountCompleted(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service implements the progress aggregation logic.
type Service struct {
	attempts     attemptRepo
	catalog      catalogRepo
	stored       progressRepo
	defaultScore int
	log          *slog.Logger
}

// NewService creates a new progress service. defaultScore is the completion
// threshold (percentage) used for catalog rows without an explicit required
// score.
func NewService(log *slog.Logger, attempts attemptRepo, catalog catalogRepo, stored progressRepo, defaultScore int) *Service {
	return &Service{
		attempts:     attempts,
		catalog:      catalog,
		stored:       stored,
		defaultScore: defaultScore,
		log:          log.With("service", "progress"),
	}
}

func (s *Service) requiredScore(v int) int {
	if v <= 0 {
		return s.defaultScore
	}
	return v
}

// ComputeLevelProgress derives one level's progress from the ledger.
// An exercise counts as completed once it has at least one correct attempt.
func (s *Service) ComputeLevelProgress(ctx context.Context, userID, levelID uuid.UUID) (domain.LevelProgress, error) {
	level, err := s.catalog.GetLevel(ctx, levelID)
	if err != nil {
		return domain.LevelProgress{}, fmt.Errorf("get level: %w", err)
	}

	total, err := s.catalog.CountExercisesByLevel(ctx, levelID)
	if err != nil {
		return domain.LevelProgress{}, fmt.Errorf("count exercises: %w", err)
	}

	slice, err := s.attempts.AggregateByLevel(ctx, userID, levelID)
	if err != nil {
		return domain.LevelProgress{}, fmt.Errorf("aggregate attempts: %w", err)
	}

	accuracy := slice.Accuracy()
	return domain.LevelProgress{
		UserID:             userID,
		LevelID:            levelID,
		CompletedExercises: slice.CorrectedExercises,
		TotalExercises:     total,
		AccuracyPercentage: accuracy,
		TotalPoints:        slice.TotalPoints,
		Stars:              starsFor(slice),
		Completed: total > 0 &&
			slice.CorrectedExercises >= total &&
			accuracy >= float64(s.requiredScore(level.RequiredScore)),
	}, nil
}

// starsFor grades a level by how cleanly it was answered: three stars for a
// flawless run, two with a couple of slips, one otherwise.
func starsFor(slice domain.LedgerSlice) int {
	if slice.CorrectAttempts == 0 {
		return 0
	}
	wrong := slice.TotalAttempts - slice.CorrectAttempts
	switch {
	case wrong == 0:
		return 3
	case wrong < 3:
		return 2
	default:
		return 1
	}
}

// DeriveCourseProgress computes a fresh course aggregate from the ledger
// without persisting it. A course is completed once every exercise has been
// attempted and accuracy meets the course's required score (inclusive).
func (s *Service) DeriveCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error) {
	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("get course: %w", err)
	}

	total, err := s.catalog.CountExercisesByCourse(ctx, courseID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("count exercises: %w", err)
	}

	slice, err := s.attempts.AggregateByCourse(ctx, userID, courseID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("aggregate attempts: %w", err)
	}

	accuracy := slice.Accuracy()
	completed := total > 0 &&
		slice.DistinctExercises >= total &&
		accuracy >= float64(s.requiredScore(course.RequiredScore))

	p := domain.CourseProgress{
		ID:                 uuid.New(),
		UserID:             userID,
		CourseID:           courseID,
		TotalExercises:     total,
		CompletedExercises: slice.DistinctExercises,
		CorrectAnswers:     slice.CorrectAttempts,
		TotalPoints:        slice.TotalPoints,
		AccuracyPercentage: accuracy,
		IsCompleted:        completed,
	}
	if completed {
		now := time.Now().UTC()
		p.CompletedAt = &now
	}

	return p, nil
}

// RefreshCourseProgress re-derives and persists one course aggregate,
// keeping the stored unlock flag. Called inside the submission transaction
// and by the stale self-heal path.
func (s *Service) RefreshCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error) {
	fresh, err := s.DeriveCourseProgress(ctx, userID, courseID)
	if err != nil {
		return domain.CourseProgress{}, err
	}

	prior, err := s.stored.Get(ctx, userID, courseID)
	switch {
	case err == nil:
		fresh.ID = prior.ID
		fresh.IsUnlocked = prior.IsUnlocked
	case errors.Is(err, domain.ErrNotFound):
		// first attempt on this course
	default:
		return domain.CourseProgress{}, fmt.Errorf("get stored progress: %w", err)
	}

	if err := s.stored.Upsert(ctx, fresh); err != nil {
		return domain.CourseProgress{}, fmt.Errorf("store progress: %w", err)
	}

	return fresh, nil
}

// CourseProgress returns the stored aggregate, re-deriving it first when the
// row is flagged stale from a failed recompute.
func (s *Service) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error) {
	stored, err := s.stored.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.DeriveCourseProgress(ctx, userID, courseID)
		}
		return domain.CourseProgress{}, fmt.Errorf("get stored progress: %w", err)
	}

	if !stored.Stale {
		return stored, nil
	}

	s.log.InfoContext(ctx, "healing stale course progress", "course_id", courseID, "user_id", userID)
	return s.RefreshCourseProgress(ctx, userID, courseID)
}

// MarkStale flags a course aggregate after a failed recompute so the next
// read heals it.
func (s *Service) MarkStale(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.stored.MarkStale(ctx, userID, courseID)
}

// CompletedCourses counts the user's completed courses across the whole
// catalog. Feeds the achievement checks.
func (s *Service) CompletedCourses(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := s.stored.CountCompleted(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count completed courses: %w", err)
	}
	return n, nil
}
