// Package challenge implements the daily-challenge repository using
// PostgreSQL.
package challenge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides daily-challenge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new challenge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const challengeColumns = `id, date, type, target_value, points_reward, description, created_at`

const getByDateSQL = `
SELECT ` + challengeColumns + `
FROM daily_challenges
WHERE date = $1`

// Concurrent rollover and lazy creation race on the date unique index;
// DO NOTHING plus re-read makes the create idempotent.
const createSQL = `
INSERT INTO daily_challenges (` + challengeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (date) DO NOTHING`

const progressColumns = `id, user_id, challenge_id, current_value, completed, completed_at`

const getProgressSQL = `
SELECT ` + progressColumns + `
FROM user_challenge_progress
WHERE user_id = $1 AND challenge_id = $2`

// completed is monotonic: OR with the stored value so a later write can
// never clear it, and completed_at keeps its first value.
const upsertProgressSQL = `
INSERT INTO user_challenge_progress (id, user_id, challenge_id, current_value, completed, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, challenge_id) DO UPDATE
SET current_value = GREATEST(user_challenge_progress.current_value, EXCLUDED.current_value),
    completed     = user_challenge_progress.completed OR EXCLUDED.completed,
    completed_at  = COALESCE(user_challenge_progress.completed_at, EXCLUDED.completed_at)`

// GetByDate returns the challenge for one UTC day (YYYY-MM-DD), or
// domain.ErrNotFound when none has been created yet.
func (r *Repo) GetByDate(ctx context.Context, date string) (domain.DailyChallenge, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanChallenge(querier.QueryRow(ctx, getByDateSQL, date))
	if err != nil {
		return domain.DailyChallenge{}, postgres.MapError(err, "daily challenge", uuid.Nil)
	}

	return c, nil
}

// Create inserts the challenge of the day; a concurrent insert for the same
// date wins silently and the caller should re-read.
func (r *Repo) Create(ctx context.Context, c domain.DailyChallenge) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := querier.Exec(ctx, createSQL,
		c.ID, c.Date, string(c.Type), c.TargetValue, c.PointsReward, c.Description, c.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "daily challenge", c.ID)
	}

	return nil
}

// GetProgress returns one user's progress on one challenge, or
// domain.ErrNotFound before the first contributing attempt.
func (r *Repo) GetProgress(ctx context.Context, userID, challengeID uuid.UUID) (domain.ChallengeProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanProgress(querier.QueryRow(ctx, getProgressSQL, userID, challengeID))
	if err != nil {
		return domain.ChallengeProgress{}, postgres.MapError(err, "challenge progress", challengeID)
	}

	return p, nil
}

// UpsertProgress writes challenge progress. Monotonicity is enforced in
// SQL: current_value never decreases and completed never reverts.
func (r *Repo) UpsertProgress(ctx context.Context, p domain.ChallengeProgress) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, upsertProgressSQL,
		p.ID, p.UserID, p.ChallengeID, p.CurrentValue, p.Completed, p.CompletedAt)
	if err != nil {
		return postgres.MapError(err, "challenge progress", p.ChallengeID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (domain.DailyChallenge, error) {
	var (
		c     domain.DailyChallenge
		ctype string
	)
	err := row.Scan(&c.ID, &c.Date, &ctype, &c.TargetValue, &c.PointsReward,
		&c.Description, &c.CreatedAt)
	if err != nil {
		return domain.DailyChallenge{}, err
	}
	c.Type = domain.ChallengeType(ctype)
	return c, nil
}

func scanProgress(row rowScanner) (domain.ChallengeProgress, error) {
	var p domain.ChallengeProgress
	err := row.Scan(&p.ID, &p.UserID, &p.ChallengeID, &p.CurrentValue, &p.Completed, &p.CompletedAt)
	return p, err
}
