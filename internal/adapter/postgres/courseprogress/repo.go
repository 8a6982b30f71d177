// Package courseprogress implements the denormalized course_progress
// repository using PostgreSQL.
package courseprogress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides course-progress persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new course-progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const progressColumns = `id, user_id, course_id, total_exercises, completed_exercises,
       correct_answers, total_points, accuracy_percentage, is_completed, is_unlocked,
       stale, completed_at, created_at, updated_at`

const getSQL = `
SELECT ` + progressColumns + `
FROM course_progress
WHERE user_id = $1 AND course_id = $2`

const listByUserSQL = `
SELECT ` + progressColumns + `
FROM course_progress
WHERE user_id = $1`

// Upsert keeps completed_at once set: completion timestamps never move
// backward even when a later recompute still reports is_completed.
const upsertSQL = `
INSERT INTO course_progress (id, user_id, course_id, total_exercises, completed_exercises,
                             correct_answers, total_points, accuracy_percentage, is_completed,
                             is_unlocked, stale, completed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, $11, $12, $12)
ON CONFLICT (user_id, course_id) DO UPDATE
SET total_exercises     = EXCLUDED.total_exercises,
    completed_exercises = EXCLUDED.completed_exercises,
    correct_answers     = EXCLUDED.correct_answers,
    total_points        = EXCLUDED.total_points,
    accuracy_percentage = EXCLUDED.accuracy_percentage,
    is_completed        = EXCLUDED.is_completed,
    is_unlocked         = EXCLUDED.is_unlocked,
    stale               = FALSE,
    completed_at        = COALESCE(course_progress.completed_at, EXCLUDED.completed_at),
    updated_at          = EXCLUDED.updated_at`

const markStaleSQL = `
UPDATE course_progress
SET stale = TRUE, updated_at = $3
WHERE user_id = $1 AND course_id = $2`

const countCompletedSQL = `
SELECT COUNT(*)
FROM course_progress
WHERE user_id = $1 AND is_completed AND NOT stale`

// Get returns the stored aggregate for one (user, course) pair, or
// domain.ErrNotFound when the user has never attempted the course.
func (r *Repo) Get(ctx context.Context, userID, courseID uuid.UUID) (domain.CourseProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanProgress(querier.QueryRow(ctx, getSQL, userID, courseID))
	if err != nil {
		return domain.CourseProgress{}, postgres.MapError(err, "course progress", courseID)
	}

	return p, nil
}

// ListByUser returns all stored aggregates for one user.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CourseProgress, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "course progress", userID)
	}
	defer rows.Close()

	var out []domain.CourseProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, postgres.MapError(err, "course progress", userID)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "course progress", userID)
	}

	return out, nil
}

// Upsert writes a freshly derived aggregate, clearing any stale flag.
func (r *Repo) Upsert(ctx context.Context, p domain.CourseProgress) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := querier.Exec(ctx, upsertSQL,
		p.ID, p.UserID, p.CourseID, p.TotalExercises, p.CompletedExercises,
		p.CorrectAnswers, p.TotalPoints, p.AccuracyPercentage, p.IsCompleted,
		p.IsUnlocked, p.CompletedAt, now)
	if err != nil {
		return postgres.MapError(err, "course progress", p.CourseID)
	}

	return nil
}

// MarkStale flags the row so readers re-derive it before trusting it.
// Missing rows are fine: a user with no stored aggregate has nothing stale.
func (r *Repo) MarkStale(ctx context.Context, userID, courseID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, markStaleSQL, userID, courseID, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "course progress", courseID)
	}

	return nil
}

// CountCompleted returns how many courses the user has completed across the
// whole catalog, skipping stale rows.
func (r *Repo) CountCompleted(ctx context.Context, userID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	err := querier.QueryRow(ctx, countCompletedSQL, userID).Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "course progress", userID)
	}

	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (domain.CourseProgress, error) {
	var p domain.CourseProgress
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.TotalExercises, &p.CompletedExercises,
		&p.CorrectAnswers, &p.TotalPoints, &p.AccuracyPercentage, &p.IsCompleted,
		&p.IsUnlocked, &p.Stale, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
