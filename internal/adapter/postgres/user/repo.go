// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/lexivon/lexivon-backend/internal/adapter/postgres"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, is_active,
       current_streak, longest_streak, last_activity_date, created_at, updated_at`

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getByUsernameSQL = `
SELECT ` + userColumns + `
FROM users
WHERE username = $1 OR email = $1`

const createSQL = `
INSERT INTO users (id, username, email, password_hash, role, is_active,
                   current_streak, longest_streak, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, TRUE, 0, 0, $6, $6)`

const updateStreakSQL = `
UPDATE users
SET current_streak = $2, longest_streak = $3, last_activity_date = $4, updated_at = $5
WHERE id = $1`

const touchLoginSQL = `
UPDATE users SET updated_at = $2 WHERE id = $1`

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, userID)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", userID)
	}

	return u, nil
}

// GetByLogin returns a user matching the given username or email.
func (r *Repo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByUsernameSQL, login)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", uuid.Nil)
	}

	return u, nil
}

// Create inserts a new user. Duplicate username or email results in
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := querier.Exec(ctx, createSQL,
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), now)
	if err != nil {
		return domain.User{}, postgres.MapError(err, "user", u.ID)
	}

	return u, nil
}

// UpdateStreak writes the streak counters and activity timestamp.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int, lastActivity time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateStreakSQL,
		userID, current, longest, lastActivity, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// TouchLogin bumps updated_at after a successful login.
func (r *Repo) TouchLogin(ctx context.Context, userID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, touchLoginSQL, userID, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsActive,
		&u.CurrentStreak, &u.LongestStreak, &u.LastActivityDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.UserRole(role)
	return u, nil
}
