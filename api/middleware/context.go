package middleware

import (
	"context"

	"github.com/daghlis/gallery-backend/internal/storefront"
)

type contextKey string

const (
	ctxAdminID contextKey = "admin_id"
	ctxRole    contextKey = "actor_role"
	ctxSession contextKey = "storefront_session"
)

func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// SessionFromContext returns the storefront session resolved by the
// StorefrontSession middleware.
func SessionFromContext(ctx context.Context) *storefront.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*storefront.Session); ok {
		return v
	}
	return nil
}

// WithSession injects a storefront session into the context.
func WithSession(ctx context.Context, s *storefront.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, s)
}
