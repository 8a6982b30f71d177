package auth

import (
	"context"
	"fmt"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context) (domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Me: %w", err)
	}
	return user, nil
}
