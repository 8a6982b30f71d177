package gamification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Achievement codes with dedicated award rules.
const (
	codeFirstExercise  = "first_exercise"
	codePerfectLevel   = "perfect_level"
	codeClassMaster    = "class_master"
	codeSpeedDemon     = "speed_demon"
	codeAccuracyMaster = "accuracy_master"
	streakCodePrefix   = "streak_"
)

// AchievementFacts carries the user statistics the award rules judge.
// Collected by the caller so one pass over the ledger serves every rule.
type AchievementFacts struct {
	TotalAttempts    int
	AttemptsToday    int
	CurrentStreak    int
	CompletedCourses int
	OverallAccuracy  float64
	HasPerfectLevel  bool // some level with >= 5 attempts, all correct
}

// CheckAchievements awards every achievement the user now qualifies for and
// returns the newly earned ones. Already-held achievements are skipped.
func (s *Service) CheckAchievements(ctx context.Context, userID uuid.UUID, facts AchievementFacts) ([]domain.Achievement, error) {
	all, err := s.achievements.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	earned, err := s.achievements.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list earned: %w", err)
	}
	held := make(map[uuid.UUID]bool, len(earned))
	for _, a := range earned {
		held[a.ID] = true
	}

	var awarded []domain.Achievement
	for _, a := range all {
		if held[a.ID] || !qualifies(a, facts) {
			continue
		}

		fresh, err := s.achievements.Award(ctx, userID, a.ID)
		if err != nil {
			return nil, fmt.Errorf("award %s: %w", a.Code, err)
		}
		if fresh {
			awarded = append(awarded, a)
			s.log.InfoContext(ctx, "achievement earned", "user_id", userID, "code", a.Code)
		}
	}

	return awarded, nil
}

// AllAchievements returns the full catalog.
func (s *Service) AllAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return s.achievements.ListAll(ctx)
}

// UserAchievements returns the achievements one user holds.
func (s *Service) UserAchievements(ctx context.Context, userID uuid.UUID) ([]domain.Achievement, error) {
	return s.achievements.ListEarned(ctx, userID)
}

func qualifies(a domain.Achievement, facts AchievementFacts) bool {
	switch {
	case a.Code == codeFirstExercise:
		return facts.TotalAttempts >= 1
	case a.Code == codePerfectLevel:
		return facts.HasPerfectLevel
	case a.Code == codeClassMaster:
		required := a.RequirementValue
		if required <= 0 {
			required = 10
		}
		return facts.CompletedCourses >= required
	case a.Code == codeSpeedDemon:
		required := a.RequirementValue
		if required <= 0 {
			required = 20
		}
		return facts.AttemptsToday >= required
	case a.Code == codeAccuracyMaster:
		return facts.TotalAttempts >= 50 && facts.OverallAccuracy >= 95
	case strings.HasPrefix(a.Code, streakCodePrefix):
		required := a.RequirementValue
		if required <= 0 {
			// fall back to the number embedded in the code, e.g. streak_7
			if n, err := strconv.Atoi(strings.TrimPrefix(a.Code, streakCodePrefix)); err == nil {
				required = n
			} else {
				required = 3
			}
		}
		return facts.CurrentStreak >= required
	}
	return false
}
