// Package srscard implements the spaced-repetition card repository using
// PostgreSQL.
package srscard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides SRS card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new SRS card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const cardColumns = `id, user_id, exercise_id, word, ease_factor, interval_days, repetitions,
       next_review_date, last_reviewed_at, total_reviews, correct_reviews, created_at, updated_at`

const getByIDSQL = `
SELECT ` + cardColumns + `
FROM srs_cards
WHERE id = $1 AND user_id = $2`

const getByUserExerciseSQL = `
SELECT ` + cardColumns + `
FROM srs_cards
WHERE user_id = $1 AND exercise_id = $2`

const createSQL = `
INSERT INTO srs_cards (id, user_id, exercise_id, word, ease_factor, interval_days, repetitions,
                       next_review_date, total_reviews, correct_reviews, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, $9)`

const updateSRSSQL = `
UPDATE srs_cards
SET ease_factor      = $3,
    interval_days    = $4,
    repetitions      = $5,
    next_review_date = $6,
    last_reviewed_at = $7,
    total_reviews    = total_reviews + 1,
    correct_reviews  = correct_reviews + CASE WHEN $8 THEN 1 ELSE 0 END,
    updated_at       = $9
WHERE id = $1 AND user_id = $2`

// Due ordering: most overdue first, then least reviewed, then id so the
// page is stable across identical timestamps.
const dueSQL = `
SELECT ` + cardColumns + `
FROM srs_cards
WHERE user_id = $1 AND next_review_date <= $2
ORDER BY next_review_date ASC, total_reviews ASC, id ASC
LIMIT $3`

const statsSQL = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE next_review_date <= $2),
       COALESCE(SUM(total_reviews), 0),
       COALESCE(SUM(correct_reviews), 0)
FROM srs_cards
WHERE user_id = $1`

// GetByID returns the card scoped to its owner. A card belonging to another
// user surfaces as domain.ErrNotFound, never as a cross-user leak.
func (r *Repo) GetByID(ctx context.Context, cardID, userID uuid.UUID) (domain.SRSCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	card, err := scanCard(querier.QueryRow(ctx, getByIDSQL, cardID, userID))
	if err != nil {
		return domain.SRSCard{}, postgres.MapError(err, "srs card", cardID)
	}

	return card, nil
}

// GetByUserExercise returns the user's card for one exercise, or
// domain.ErrNotFound when no card has been created yet.
func (r *Repo) GetByUserExercise(ctx context.Context, userID, exerciseID uuid.UUID) (domain.SRSCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	card, err := scanCard(querier.QueryRow(ctx, getByUserExerciseSQL, userID, exerciseID))
	if err != nil {
		return domain.SRSCard{}, postgres.MapError(err, "srs card", exerciseID)
	}

	return card, nil
}

// Create inserts a fresh card. A second card for the same (user, exercise)
// pair surfaces as domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, card domain.SRSCard) (domain.SRSCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	card.CreatedAt = now
	card.UpdatedAt = now

	_, err := querier.Exec(ctx, createSQL,
		card.ID, card.UserID, card.ExerciseID, card.Word,
		card.EaseFactor, card.IntervalDays, card.Repetitions,
		card.NextReviewDate, now)
	if err != nil {
		return domain.SRSCard{}, postgres.MapError(err, "srs card", card.ID)
	}

	return card, nil
}

// UpdateSRS applies the scheduler's output to one card and bumps the review
// counters atomically.
func (r *Repo) UpdateSRS(ctx context.Context, cardID, userID uuid.UUID, params domain.SRSUpdateParams) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSRSSQL,
		cardID, userID,
		params.EaseFactor, params.IntervalDays, params.Repetitions,
		params.NextReviewDate, params.LastReviewedAt, params.WasCorrect,
		time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "srs card", cardID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("srs card %s: %w", cardID, domain.ErrNotFound)
	}

	return nil
}

// Due returns up to limit cards due at the given instant.
func (r *Repo) Due(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SRSCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, dueSQL, userID, now, limit)
	if err != nil {
		return nil, postgres.MapError(err, "srs card", userID)
	}
	defer rows.Close()

	var cards []domain.SRSCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, postgres.MapError(err, "srs card", userID)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "srs card", userID)
	}

	return cards, nil
}

// Stats returns the user's review statistics as of now.
func (r *Repo) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (domain.SRSStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.SRSStats
	err := querier.QueryRow(ctx, statsSQL, userID, now).Scan(
		&s.TotalCards, &s.DueCards, &s.TotalReviews, &s.CorrectReviews)
	if err != nil {
		return domain.SRSStats{}, postgres.MapError(err, "srs card", userID)
	}
	if s.TotalReviews > 0 {
		s.Accuracy = float64(s.CorrectReviews) / float64(s.TotalReviews) * 100
	}

	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (domain.SRSCard, error) {
	var c domain.SRSCard
	err := row.Scan(&c.ID, &c.UserID, &c.ExerciseID, &c.Word,
		&c.EaseFactor, &c.IntervalDays, &c.Repetitions,
		&c.NextReviewDate, &c.LastReviewedAt,
		&c.TotalReviews, &c.CorrectReviews, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
