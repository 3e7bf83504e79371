package middleware

import (
	"net/http"

	"github.com/daghlis/gallery-backend/internal/storefront"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

// SessionHeader carries the storefront session id in both directions.
const SessionHeader = "X-Session-Id"

type sessionResolver interface {
	Resolve(id string) (*storefront.Session, bool)
}

// StorefrontSession resolves the buyer's session from X-Session-Id, creating
// one when the header is absent or stale, and echoes the id back.
func StorefrontSession(registry sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, created := registry.Resolve(r.Header.Get(SessionHeader))
			w.Header().Set(SessionHeader, s.ID)

			ctx := WithSession(r.Context(), s)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, s.ID)
				if created {
					logg.Info(ctx, "storefront.session_created")
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
