// Package submission orchestrates the answer-submission pipeline: attempt
// write, progress recompute, unlock re-evaluation, SRS mistake card, streak,
// daily challenge, and achievement checks.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/internal/service/gamification"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

type attemptRepo interface {
	Insert(ctx context.Context, a domain.Attempt) error
	GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Attempt, error)
	AggregateByLevel(ctx context.Context, userID, levelID uuid.UUID) (domain.LedgerSlice, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (total, correct int, err error)
}

type catalogRepo interface {
	GetExercise(ctx context.Context, id uuid.UUID) (domain.Exercise, error)
	GetCourse(ctx context.Context, id uuid.UUID) (domain.Course, error)
}

type progressService interface {
	ComputeLevelProgress(ctx context.Context, userID, levelID uuid.UUID) (domain.LevelProgress, error)
	RefreshCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error)
	CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error)
	CompletedCourses(ctx context.Context, userID uuid.UUID) (int, error)
	MarkStale(ctx context.Context, userID, courseID uuid.UUID) error
}

type unlockService interface {
	IsCourseEnabled(ctx context.Context, userID uuid.UUID, course domain.Course) (bool, error)
}

type srsService interface {
	EnsureCardForMistake(ctx context.Context, userID, exerciseID uuid.UUID, word string) (domain.SRSCard, error)
}

type gamificationService interface {
	RecordActivity(ctx context.Context, userID uuid.UUID, correct bool, now time.Time) (domain.StreakInfo, error)
	BumpChallenge(ctx context.Context, userID uuid.UUID, correct bool, now time.Time) (int, error)
	CheckAchievements(ctx context.Context, userID uuid.UUID, facts gamification.AchievementFacts) ([]domain.Achievement, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the submission pipeline.
type Service struct {
	attempts     attemptRepo
	catalog      catalogRepo
	progress     progressService
	unlock       unlockService
	srs          srsService
	gamification gamificationService
	tx           txManager
	log          *slog.Logger
}

// NewService creates a new submission service.
func NewService(
	log *slog.Logger,
	attempts attemptRepo,
	catalog catalogRepo,
	progress progressService,
	unlock unlockService,
	srs srsService,
	gamification gamificationService,
	tx txManager,
) *Service {
	return &Service{
		attempts:     attempts,
		catalog:      catalog,
		progress:     progress,
		unlock:       unlock,
		srs:          srs,
		gamification: gamification,
		tx:           tx,
		log:          log.With("service", "submission"),
	}
}

// Result is the outcome of one submission.
type Result struct {
	AttemptID       uuid.UUID
	IsCorrect       bool
	ScoreDelta      int
	NewPoints       int
	Stars           int
	LevelCompleted  bool
	CourseCompleted bool
	Message         string
	Duplicate       bool
	ChallengeBonus  int
	NewAchievements []domain.Achievement
	Streak          domain.StreakInfo
}

// Submit grades one answer and runs the full recompute chain.
//
// The attempt itself is committed first and never rolled back. The dependent
// recompute runs in one transaction so a client can never observe a level
// marked complete while its course still shows locked; if that transaction
// fails the course aggregate is flagged stale for lazy re-derivation and the
// graded result is still returned.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return Result{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	if input.IdempotencyKey != nil {
		prior, err := s.attempts.GetByIdempotencyKey(ctx, userID, *input.IdempotencyKey)
		switch {
		case err == nil:
			return s.replayResult(ctx, userID, prior)
		case !errors.Is(err, domain.ErrNotFound):
			return Result{}, fmt.Errorf("check idempotency key: %w", err)
		}
	}

	exercise, err := s.catalog.GetExercise(ctx, input.ExerciseID)
	if err != nil {
		return Result{}, fmt.Errorf("get exercise: %w", err)
	}
	if !exercise.Enabled {
		return Result{}, fmt.Errorf("exercise %s: %w", exercise.ID, domain.ErrNotFound)
	}

	course, err := s.catalog.GetCourse(ctx, exercise.CourseID)
	if err != nil {
		return Result{}, fmt.Errorf("get course: %w", err)
	}
	enabled, err := s.unlock.IsCourseEnabled(ctx, userID, course)
	if err != nil {
		return Result{}, fmt.Errorf("check unlock: %w", err)
	}
	if !enabled {
		return Result{}, fmt.Errorf("course %s is locked: %w", course.ID, domain.ErrForbidden)
	}

	now := time.Now().UTC()
	isCorrect := domain.AnswersMatch(exercise.Answer, input.Response)
	scoreDelta := 0
	if isCorrect {
		scoreDelta = exercise.Points
	}

	att := domain.Attempt{
		ID:             uuid.New(),
		UserID:         userID,
		ExerciseID:     exercise.ID,
		LevelID:        exercise.LevelID,
		CourseID:       exercise.CourseID,
		Response:       input.Response,
		IsCorrect:      isCorrect,
		ScoreDelta:     scoreDelta,
		IdempotencyKey: input.IdempotencyKey,
		SubmittedAt:    now,
	}
	if err := s.attempts.Insert(ctx, att); err != nil {
		// concurrent duplicate of the same client key: replay its result
		if input.IdempotencyKey != nil && errors.Is(err, domain.ErrAlreadyExists) {
			prior, getErr := s.attempts.GetByIdempotencyKey(ctx, userID, *input.IdempotencyKey)
			if getErr == nil {
				return s.replayResult(ctx, userID, prior)
			}
		}
		return Result{}, fmt.Errorf("record attempt: %w", err)
	}

	result := Result{
		AttemptID:  att.ID,
		IsCorrect:  isCorrect,
		ScoreDelta: scoreDelta,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		levelProgress, err := s.progress.ComputeLevelProgress(txCtx, userID, exercise.LevelID)
		if err != nil {
			return fmt.Errorf("level progress: %w", err)
		}

		priorCourse, err := s.progress.CourseProgress(txCtx, userID, exercise.CourseID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("prior course progress: %w", err)
		}
		wasCompleted := err == nil && priorCourse.IsCompleted

		courseProgress, err := s.progress.RefreshCourseProgress(txCtx, userID, exercise.CourseID)
		if err != nil {
			return fmt.Errorf("course progress: %w", err)
		}

		streak, err := s.gamification.RecordActivity(txCtx, userID, isCorrect, now)
		if err != nil {
			return fmt.Errorf("streak: %w", err)
		}

		bonus, err := s.gamification.BumpChallenge(txCtx, userID, isCorrect, now)
		if err != nil {
			return fmt.Errorf("daily challenge: %w", err)
		}

		if !isCorrect {
			if _, err := s.srs.EnsureCardForMistake(txCtx, userID, exercise.ID, exercise.Answer); err != nil {
				return fmt.Errorf("srs card: %w", err)
			}
		}

		awarded, err := s.checkAchievements(txCtx, userID, levelProgress, streak, now)
		if err != nil {
			return fmt.Errorf("achievements: %w", err)
		}

		result.NewPoints = courseProgress.TotalPoints + bonus
		result.Stars = levelProgress.Stars
		result.LevelCompleted = levelProgress.Completed
		result.CourseCompleted = courseProgress.IsCompleted && !wasCompleted
		result.ChallengeBonus = bonus
		result.NewAchievements = awarded
		result.Streak = streak
		result.Message = buildMessage(result, courseProgress, levelProgress)
		return nil
	})
	if err != nil {
		// attempt stays committed; flag the aggregate for lazy re-derivation
		s.log.ErrorContext(ctx, "recompute failed after attempt write",
			"attempt_id", att.ID, "error", err)
		if staleErr := s.progress.MarkStale(ctx, userID, exercise.CourseID); staleErr != nil {
			s.log.ErrorContext(ctx, "failed to flag stale progress",
				"course_id", exercise.CourseID, "error", staleErr)
		}
		result.Message = messageFor(isCorrect, scoreDelta)
		return result, nil
	}

	return result, nil
}

// checkAchievements assembles user-wide facts: attempt and accuracy totals
// span the whole ledger and the completed-course count spans every course,
// not just the one being recomputed. Only the perfect-level fact is scoped
// to the level just attempted.
func (s *Service) checkAchievements(
	ctx context.Context,
	userID uuid.UUID,
	level domain.LevelProgress,
	streak domain.StreakInfo,
	now time.Time,
) ([]domain.Achievement, error) {
	dayStart := now.Truncate(24 * time.Hour)
	attemptsToday, _, err := s.attempts.CountSince(ctx, userID, dayStart)
	if err != nil {
		return nil, err
	}

	totalAttempts, correctAttempts, err := s.attempts.CountSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}

	completedCourses, err := s.progress.CompletedCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	slice, err := s.attempts.AggregateByLevel(ctx, userID, level.LevelID)
	if err != nil {
		return nil, err
	}

	var accuracy float64
	if totalAttempts > 0 {
		accuracy = float64(correctAttempts) / float64(totalAttempts) * 100
	}

	facts := gamification.AchievementFacts{
		TotalAttempts:    totalAttempts,
		AttemptsToday:    attemptsToday,
		CurrentStreak:    streak.CurrentStreak,
		CompletedCourses: completedCourses,
		OverallAccuracy:  accuracy,
		HasPerfectLevel: slice.TotalAttempts >= 5 &&
			slice.CorrectAttempts == slice.TotalAttempts,
	}

	return s.gamification.CheckAchievements(ctx, userID, facts)
}

// replayResult rebuilds the response for a duplicate submission from the
// stored attempt without writing anything.
func (s *Service) replayResult(ctx context.Context, userID uuid.UUID, prior domain.Attempt) (Result, error) {
	levelProgress, err := s.progress.ComputeLevelProgress(ctx, userID, prior.LevelID)
	if err != nil {
		return Result{}, fmt.Errorf("level progress: %w", err)
	}

	courseProgress, err := s.progress.CourseProgress(ctx, userID, prior.CourseID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Result{}, fmt.Errorf("course progress: %w", err)
	}

	result := Result{
		AttemptID:      prior.ID,
		IsCorrect:      prior.IsCorrect,
		ScoreDelta:     prior.ScoreDelta,
		NewPoints:      courseProgress.TotalPoints,
		Stars:          levelProgress.Stars,
		LevelCompleted: levelProgress.Completed,
		Duplicate:      true,
	}
	result.Message = messageFor(prior.IsCorrect, prior.ScoreDelta)
	return result, nil
}

func buildMessage(r Result, course domain.CourseProgress, level domain.LevelProgress) string {
	switch {
	case r.IsCorrect && r.CourseCompleted:
		return fmt.Sprintf("🎉 Kurs i përfunduar! Saktësia: %.1f%% - Kursi i ardhshëm u hap! 🚀", course.AccuracyPercentage)
	case r.IsCorrect && r.LevelCompleted:
		return fmt.Sprintf("🎉 Nivel i përfunduar! Saktësia: %.1f%%", level.AccuracyPercentage)
	default:
		return messageFor(r.IsCorrect, r.ScoreDelta)
	}
}

func messageFor(correct bool, points int) string {
	if correct {
		return fmt.Sprintf("✅ Përgjigje e saktë! +%d pikë", points)
	}
	return "❌ Përgjigje e gabuar. Provoni sërish!"
}
