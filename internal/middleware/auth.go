package middleware

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessTokenCookie is the cookie carrying the short-lived access token.
const AccessTokenCookie = "accessToken"

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware resolves the caller identity from the access-token cookie.
// The token's user id is looked up against the store, so a deleted account
// is rejected even while its token is still within TTL. The resolved user
// (without its password hash) is attached to the request context.
func AuthMiddleware(accessSecret string, users repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				logger.Debug("Missing access token cookie")
				respondWithError(w, http.StatusUnauthorized, "unauthorized - no access token provided")
				return
			}

			token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(accessSecret), nil
			})

			if err != nil {
				logger.Debug("Access token validation failed", zap.Error(err))
				// Expired is reported distinctly so clients know to refresh.
				if errors.Is(err, jwt.ErrTokenExpired) {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				logger.Debug("Invalid access token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			rawUserID, ok := claims["user_id"].(string)
			if !ok {
				logger.Error("Missing user_id in token claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			userID, err := uuid.Parse(rawUserID)
			if err != nil {
				logger.Debug("Malformed user id in token claims", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if err == repository.ErrUserNotFound {
					logger.Debug("Token references unknown user", zap.String("user_id", rawUserID))
					respondWithError(w, http.StatusUnauthorized, "user not found")
					return
				}
				logger.Error("Failed to resolve user", zap.Error(err))
				respondWithError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user.Sanitized())

			logger.Debug("User authenticated",
				zap.String("user_id", user.ID.String()),
				zap.String("role", user.Role),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from the request context.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// WithUser returns a context carrying the given user, for tests and
// internal callers.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
