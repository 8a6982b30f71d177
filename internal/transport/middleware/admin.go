package middleware

import (
	"context"

	"github.com/lexivon/lexivon-backend/internal/domain"
	"github.com/lexivon/lexivon-backend/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context user is not admin.
// Use inside handlers, not as HTTP middleware.
func RequireAdmin(ctx context.Context) error {
	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if !role.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
