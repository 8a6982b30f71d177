// Package gamification implements streaks, daily challenges, and
// achievements.
package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

type userRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastActivity time.Time) error
}

type challengeRepo interface {
	GetByDate(ctx context.Context, date string) (domain.DailyChallenge, error)
	Create(ctx context.Context, c domain.DailyChallenge) error
	GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (domain.ChallengeProgress, error)
	UpsertProgress(ctx context.Context, p domain.ChallengeProgress) error
}

type achievementRepo interface {
	ListAll(ctx context.Context) ([]domain.Achievement, error)
	ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.Achievement, error)
	Award(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)
}

// Service implements the gamification business logic.
type Service struct {
	users        userRepo
	challenges   challengeRepo
	achievements achievementRepo
	log          *slog.Logger
}

// NewService creates a new gamification service.
func NewService(log *slog.Logger, users userRepo, challenges challengeRepo, achievements achievementRepo) *Service {
	return &Service{
		users:        users,
		challenges:   challenges,
		achievements: achievements,
		log:          log.With("service", "gamification"),
	}
}

// RecordActivity updates the user's streak after an attempt and returns the
// new counters. Only correct attempts count as streak activity; an incorrect
// attempt returns the stored counters untouched. A second correct attempt on
// the same UTC day is a no-op for the counters but still refreshes
// last_activity_date.
func (s *Service) RecordActivity(ctx context.Context, userID uuid.UUID, correct bool, now time.Time) (domain.StreakInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.StreakInfo{}, fmt.Errorf("get user: %w", err)
	}

	if !correct {
		return streakInfo(user), nil
	}

	current, longest := advanceStreak(user.CurrentStreak, user.LongestStreak, user.LastActivityDate, now)

	activityAt := now.UTC()
	if err := s.users.UpdateStreak(ctx, userID, current, longest, activityAt); err != nil {
		return domain.StreakInfo{}, fmt.Errorf("update streak: %w", err)
	}

	return domain.StreakInfo{
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastActivityDate: &activityAt,
	}, nil
}

// Streak returns the user's current streak counters.
func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (domain.StreakInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.StreakInfo{}, fmt.Errorf("get user: %w", err)
	}
	return streakInfo(user), nil
}
