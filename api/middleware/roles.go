package middleware

import (
	"net/http"

	"github.com/daghlis/gallery-backend/api/responses"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

// RequireRole admits requests whose authenticated role is one of allowed.
// It must run after Auth.
func RequireRole(logg *logger.Logger, allowed ...string) func(http.Handler) http.Handler {
	permitted := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		permitted[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if _, ok := permitted[role]; !ok {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "role", role), "auth.role_denied")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
