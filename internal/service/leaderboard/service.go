// Package leaderboard exposes the ranked standings built from the attempt
// ledger.
package leaderboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

const maxLimit = 100

type attemptRepo interface {
	Leaderboard(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error)
	UserRank(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service serves leaderboard queries.
type Service struct {
	attempts attemptRepo
	log      *slog.Logger
}

// NewService creates a new leaderboard service.
func NewService(log *slog.Logger, attempts attemptRepo) *Service {
	return &Service{
		attempts: attempts,
		log:      log.With("service", "leaderboard"),
	}
}

// Top returns the ranked standings. Non-positive and oversized limits are
// clamped to maxLimit, so one page never exceeds 100 rows.
func (s *Service) Top(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.attempts.Leaderboard(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

// Rank returns the 1-based position of one user, or domain.ErrNotFound for
// users without attempts.
func (s *Service) Rank(ctx context.Context, userID uuid.UUID) (int, error) {
	rank, err := s.attempts.UserRank(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("user rank: %w", err)
	}
	return rank, nil
}
