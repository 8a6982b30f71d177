package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexivon/lexivon-backend/internal/domain"
)

// Login authenticates a user by username or email plus password.
// Returns ErrUnauthorized if the account is unknown, inactive, or the
// password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Login = strings.TrimSpace(input.Login)

	if err := input.Validate(); err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.GetByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("auth.Login get user: %w", err)
	}

	if !user.IsActive {
		return AuthResult{}, domain.ErrUnauthorized
	}
	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return AuthResult{}, domain.ErrUnauthorized
	}

	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		return AuthResult{}, fmt.Errorf("auth.Login touch login: %w", err)
	}

	result, err := s.issueToken(user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()))

	return result, nil
}
