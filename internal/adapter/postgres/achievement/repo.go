// Package achievement implements the achievement repository using
// PostgreSQL.
package achievement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides achievement persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new achievement repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const achievementColumns = `id, code, name, description, category, requirement_value, points_reward, created_at`

const listAllSQL = `
SELECT ` + achievementColumns + `
FROM achievements
ORDER BY category, requirement_value, code`

const listEarnedSQL = `
SELECT a.id, a.code, a.name, a.description, a.category, a.requirement_value, a.points_reward, a.created_at
FROM achievements a
JOIN user_achievements ua ON ua.achievement_id = a.id
WHERE ua.user_id = $1
ORDER BY ua.earned_at`

// Award is idempotent: re-earning an already-held achievement keeps the
// original earned_at.
const awardSQL = `
INSERT INTO user_achievements (id, user_id, achievement_id, earned_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, achievement_id) DO NOTHING`

const upsertDefSQL = `
INSERT INTO achievements (` + achievementColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (code) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    requirement_value = EXCLUDED.requirement_value,
    points_reward = EXCLUDED.points_reward`

// ListAll returns the full achievement catalog.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Achievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listAllSQL)
	if err != nil {
		return nil, postgres.MapError(err, "achievement", uuid.Nil)
	}
	defer rows.Close()

	return collectAchievements(rows)
}

// ListEarned returns the achievements one user holds, in earn order.
func (r *Repo) ListEarned(ctx context.Context, userID uuid.UUID) ([]domain.Achievement, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listEarnedSQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "achievement", userID)
	}
	defer rows.Close()

	return collectAchievements(rows)
}

// Award grants an achievement to a user. Awarding twice is a no-op and
// reports awarded=false the second time.
func (r *Repo) Award(ctx context.Context, userID, achievementID uuid.UUID) (awarded bool, err error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, awardSQL,
		uuid.New(), userID, achievementID, time.Now().UTC())
	if err != nil {
		return false, postgres.MapError(err, "achievement", achievementID)
	}

	return tag.RowsAffected() > 0, nil
}

// UpsertDefinition writes one catalog entry by code. Used by the seeder.
func (r *Repo) UpsertDefinition(ctx context.Context, a domain.Achievement) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := querier.Exec(ctx, upsertDefSQL,
		a.ID, a.Code, a.Name, a.Description, a.Category,
		a.RequirementValue, a.PointsReward, a.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "achievement", a.ID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	rowScanner
	Next() bool
	Err() error
}

func collectAchievements(rows rowsIter) ([]domain.Achievement, error) {
	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.Category,
			&a.RequirementValue, &a.PointsReward, &a.CreatedAt)
		if err != nil {
			return nil, postgres.MapError(err, "achievement", uuid.Nil)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "achievement", uuid.Nil)
	}
	return out, nil
}
