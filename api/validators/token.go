package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
)

// ParseBearerToken extracts the token from the Authorization header. The
// "Bearer" prefix is optional.
func ParseBearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
