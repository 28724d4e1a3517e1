package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the user has admin role. Must run after
// AuthMiddleware.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				logger.Warn("User not found in context")
				respondWithError(w, http.StatusForbidden, "access denied - admin only")
				return
			}

			if !user.IsAdmin() {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("user_id", user.ID.String()),
					zap.String("role", user.Role),
				)
				respondWithError(w, http.StatusForbidden, "access denied - admin only")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
