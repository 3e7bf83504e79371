package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Inbound ids that do not match are replaced so log fields stay bounded.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID tags the request context and the response with a correlation id,
// reusing the caller's id when it is well formed.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(logg.WithRequestID(r.Context(), id)))
		})
	}
}
