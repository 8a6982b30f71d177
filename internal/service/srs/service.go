// Package srs implements the spaced-repetition scheduling service.
package srs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

type cardRepo interface {
	GetByID(ctx context.Context, cardID, userID uuid.UUID) (domain.SRSCard, error)
	GetByUserExercise(ctx context.Context, userID, exerciseID uuid.UUID) (domain.SRSCard, error)
	Create(ctx context.Context, card domain.SRSCard) (domain.SRSCard, error)
	UpdateSRS(ctx context.Context, cardID, userID uuid.UUID, params domain.SRSUpdateParams) error
	Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SRSCard, error)
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (domain.SRSStats, error)
}

// Service implements the SRS business logic.
type Service struct {
	cards cardRepo
	log   *slog.Logger
	cfg   domain.SRSConfig
}

// NewService creates a new SRS service.
func NewService(log *slog.Logger, cards cardRepo, cfg domain.SRSConfig) *Service {
	return &Service{
		cards: cards,
		log:   log.With("service", "srs"),
		cfg:   cfg,
	}
}

// ReviewCard grades one card and reschedules it.
func (s *Service) ReviewCard(ctx context.Context, input ReviewCardInput) (domain.SRSCard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.SRSCard{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.SRSCard{}, err
	}

	now := time.Now().UTC()

	card, err := s.cards.GetByID(ctx, input.CardID, userID)
	if err != nil {
		return domain.SRSCard{}, fmt.Errorf("get card: %w", err)
	}

	params := Schedule(card, input.Quality, now, s.cfg)

	if err := s.cards.UpdateSRS(ctx, card.ID, userID, params); err != nil {
		return domain.SRSCard{}, fmt.Errorf("update card: %w", err)
	}

	s.log.InfoContext(ctx, "card reviewed",
		"card_id", card.ID,
		"quality", input.Quality,
		"interval_days", params.IntervalDays,
	)

	card.EaseFactor = params.EaseFactor
	card.IntervalDays = params.IntervalDays
	card.Repetitions = params.Repetitions
	card.NextReviewDate = params.NextReviewDate
	card.LastReviewedAt = &params.LastReviewedAt
	card.TotalReviews++
	if params.WasCorrect {
		card.CorrectReviews++
	}

	return card, nil
}

// DueCards returns the user's review queue, most overdue first.
func (s *Service) DueCards(ctx context.Context, input DueCardsInput) ([]domain.SRSCard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.cfg.DueLimitDefault
	}
	if limit > s.cfg.DueLimitMax {
		limit = s.cfg.DueLimitMax
	}

	cards, err := s.cards.Due(ctx, userID, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("get due cards: %w", err)
	}

	return cards, nil
}

// Stats returns the user's review statistics.
func (s *Service) Stats(ctx context.Context) (domain.SRSStats, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.SRSStats{}, domain.ErrUnauthorized
	}

	stats, err := s.cards.Stats(ctx, userID, time.Now().UTC())
	if err != nil {
		return domain.SRSStats{}, fmt.Errorf("get stats: %w", err)
	}

	return stats, nil
}

// EnsureCardForMistake lazily creates the user's card for an exercise after
// an incorrect attempt. The first review lands shortly after the mistake so
// the word comes back while still fresh. Existing cards are left untouched.
func (s *Service) EnsureCardForMistake(ctx context.Context, userID, exerciseID uuid.UUID, word string) (domain.SRSCard, error) {
	card, err := s.cards.GetByUserExercise(ctx, userID, exerciseID)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.SRSCard{}, fmt.Errorf("get card: %w", err)
	}

	fresh := domain.SRSCard{
		ID:             uuid.New(),
		UserID:         userID,
		ExerciseID:     exerciseID,
		Word:           word,
		EaseFactor:     s.cfg.DefaultEaseFactor,
		IntervalDays:   1,
		NextReviewDate: time.Now().UTC().Add(s.cfg.FirstReviewDelay),
	}

	created, err := s.cards.Create(ctx, fresh)
	if err != nil {
		// lost a race with a concurrent submission for the same exercise
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.cards.GetByUserExercise(ctx, userID, exerciseID)
		}
		return domain.SRSCard{}, fmt.Errorf("create card: %w", err)
	}

	s.log.InfoContext(ctx, "srs card created", "card_id", created.ID, "exercise_id", exerciseID)

	return created, nil
}
