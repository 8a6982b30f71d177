// Package auth implements account registration, password login, and profile
// lookup. Token issue and verification live in internal/auth.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexivon/lexivon-backend/internal/config"
	"github.com/lexivon/lexivon-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	TouchLogin(ctx context.Context, userID uuid.UUID) error
}

// jwtManager defines the token issue interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
}

// passwordHasher defines the password hashing interface needed by the auth
// service.
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Service implements account operations.
type Service struct {
	log    *slog.Logger
	users  userRepo
	jwt    jwtManager
	hasher passwordHasher
	cfg    config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	jwt jwtManager,
	hasher passwordHasher,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "auth"),
		users:  users,
		jwt:    jwt,
		hasher: hasher,
		cfg:    cfg,
	}
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

func (s *Service) issueToken(user domain.User) (AuthResult, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.cfg.AccessTokenTTL),
		User:        user,
	}, nil
}
