package httpapi

import (
	"net/http"
	"strings"

	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
)

// NewAuthMiddleware enforces Authorization: Bearer <access JWT>.
//
// A missing header and a malformed one are reported distinctly; both are 401.
// The scheme comparison is case-insensitive and tolerant of extra whitespace.
// On success the authenticated user ID is stored in the request context.
func NewAuthMiddleware(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if authz == "" {
				respondError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.Fields(authz)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondError(w, http.StatusUnauthorized, "malformed Authorization header")
				return
			}

			claims, err := tokens.Verify(parts[1], token.KindAccess)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID())))
		})
	}
}
