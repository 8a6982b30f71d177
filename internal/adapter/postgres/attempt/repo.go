// Package attempt implements the append-only attempt ledger repository
// using PostgreSQL. Nothing in this package issues UPDATE or DELETE against
// the attempts table.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides attempt-ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new attempt repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const attemptColumns = `id, user_id, exercise_id, level_id, course_id,
       response, is_correct, score_delta, idempotency_key, submitted_at`

const insertSQL = `
INSERT INTO attempts (` + attemptColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const getByIdemKeySQL = `
SELECT ` + attemptColumns + `
FROM attempts
WHERE user_id = $1 AND idempotency_key = $2`

// Per-scope aggregates are computed in one pass over the ledger slice.
const aggregateSQL = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE is_correct),
    COUNT(DISTINCT exercise_id),
    COUNT(DISTINCT exercise_id) FILTER (WHERE is_correct),
    COALESCE(SUM(score_delta) FILTER (WHERE score_delta > 0), 0)
FROM attempts
WHERE user_id = $1 AND %s = $2`

const countSinceSQL = `
SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
FROM attempts
WHERE user_id = $1 AND submitted_at >= $2`

// Insert appends one attempt to the ledger. A duplicate (user, idempotency
// key) pair surfaces as domain.ErrAlreadyExists.
func (r *Repo) Insert(ctx context.Context, a domain.Attempt) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, insertSQL,
		a.ID, a.UserID, a.ExerciseID, a.LevelID, a.CourseID,
		a.Response, a.IsCorrect, a.ScoreDelta, a.IdempotencyKey, a.SubmittedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err, "attempts_user_idem_key") {
			return fmt.Errorf("attempt %s: %w", a.ID, domain.ErrAlreadyExists)
		}
		return postgres.MapError(err, "attempt", a.ID)
	}

	return nil
}

// GetByIdempotencyKey returns the prior attempt recorded under the given
// client key, or domain.ErrNotFound if none exists.
func (r *Repo) GetByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (domain.Attempt, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIdemKeySQL, userID, key)
	a, err := scanAttempt(row)
	if err != nil {
		return domain.Attempt{}, postgres.MapError(err, "attempt", userID)
	}

	return a, nil
}

// AggregateByLevel computes the user's ledger slice for one level.
func (r *Repo) AggregateByLevel(ctx context.Context, userID, levelID uuid.UUID) (domain.LedgerSlice, error) {
	return r.aggregate(ctx, userID, levelID, "level_id")
}

// AggregateByCourse computes the user's ledger slice for one course.
func (r *Repo) AggregateByCourse(ctx context.Context, userID, courseID uuid.UUID) (domain.LedgerSlice, error) {
	return r.aggregate(ctx, userID, courseID, "course_id")
}

func (r *Repo) aggregate(ctx context.Context, userID, scopeID uuid.UUID, scopeColumn string) (domain.LedgerSlice, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var s domain.LedgerSlice
	query := fmt.Sprintf(aggregateSQL, scopeColumn)
	err := querier.QueryRow(ctx, query, userID, scopeID).Scan(
		&s.TotalAttempts, &s.CorrectAttempts,
		&s.DistinctExercises, &s.CorrectedExercises, &s.TotalPoints)
	if err != nil {
		return domain.LedgerSlice{}, postgres.MapError(err, "attempt", scopeID)
	}

	return s, nil
}

// CountSince returns total and correct attempt counts since the given
// instant. A zero since counts the whole ledger. Used for daily-challenge
// progress and the achievement facts.
func (r *Repo) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (total, correct int, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	err = querier.QueryRow(ctx, countSinceSQL, userID, since).Scan(&total, &correct)
	if err != nil {
		return 0, 0, postgres.MapError(err, "attempt", userID)
	}

	return total, correct, nil
}

// Leaderboard returns ranked users by total points. Users without attempts
// do not appear. Ties break by correct answers, then username for stability.
func (r *Repo) Leaderboard(ctx context.Context, limit, offset int) ([]domain.LeaderboardEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select(
		"u.id",
		"u.username",
		"COALESCE(SUM(a.score_delta) FILTER (WHERE a.score_delta > 0), 0) AS total_points",
		"COUNT(a.id) FILTER (WHERE a.is_correct) AS total_correct",
		"COUNT(a.id) AS total_attempts",
		"COALESCE((SELECT COUNT(*) FROM course_progress cp WHERE cp.user_id = u.id AND cp.is_completed), 0) AS completed_courses",
	).
		From("users u").
		Join("attempts a ON a.user_id = u.id").
		Where(sq.Eq{"u.is_active": true}).
		GroupBy("u.id", "u.username").
		OrderBy("total_points DESC", "total_correct DESC", "u.username ASC").
		PlaceholderFormat(sq.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "leaderboard", uuid.Nil)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		err := rows.Scan(&e.UserID, &e.Username, &e.TotalPoints,
			&e.TotalCorrect, &e.TotalAttempts, &e.CompletedCourses)
		if err != nil {
			return nil, postgres.MapError(err, "leaderboard", uuid.Nil)
		}
		if e.TotalAttempts > 0 {
			e.Accuracy = float64(e.TotalCorrect) / float64(e.TotalAttempts) * 100
		}
		e.Rank = offset + len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "leaderboard", uuid.Nil)
	}

	return entries, nil
}

// UserRank returns the 1-based leaderboard position of one user, or
// domain.ErrNotFound if the user has no attempts.
func (r *Repo) UserRank(ctx context.Context, userID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const rankSQL = `
WITH ranked AS (
    SELECT u.id,
           RANK() OVER (
               ORDER BY COALESCE(SUM(a.score_delta) FILTER (WHERE a.score_delta > 0), 0) DESC,
                        COUNT(a.id) FILTER (WHERE a.is_correct) DESC,
                        u.username ASC
           ) AS pos
    FROM users u
    JOIN attempts a ON a.user_id = u.id
    WHERE u.is_active = TRUE
    GROUP BY u.id, u.username
)
SELECT pos FROM ranked WHERE id = $1`

	var rank int
	err := querier.QueryRow(ctx, rankSQL, userID).Scan(&rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return 0, postgres.MapError(err, "leaderboard", userID)
	}

	return rank, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (domain.Attempt, error) {
	var a domain.Attempt
	err := row.Scan(&a.ID, &a.UserID, &a.ExerciseID, &a.LevelID, &a.CourseID,
		&a.Response, &a.IsCorrect, &a.ScoreDelta, &a.IdempotencyKey, &a.SubmittedAt)
	return a, err
}
