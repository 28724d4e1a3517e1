package transport

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler handles HTTP requests for session operations
type AuthHandler struct {
	authService service.AuthService
	jwtCfg      config.JWTConfig
	secure      bool
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, jwtCfg config.JWTConfig, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtCfg:      jwtCfg,
		secure:      secureCookies,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		r.Post("/logout", h.Logout)
		r.Post("/refresh-token", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/profile", h.GetProfile)
		})
	})
}

// Signup handles account creation and opens a session for the new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Signup validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err == repository.ErrUserAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}

		h.logger.Error("Signup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	setSessionCookies(w, tokens, h.jwtCfg, h.secure)

	h.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user created successfully",
		"user":    user.Sanitized(),
	})
}

// Login authenticates a user and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	setSessionCookies(w, tokens, h.jwtCfg, h.secure)

	h.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user logged in successfully",
		"user":    user.Sanitized(),
	})
}

// Logout revokes the refresh session and clears both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Error("Logout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	clearSessionCookies(w, h.secure)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user logged out successfully"})
}

// RefreshToken mints a new access token from the refresh cookie. The
// refresh token itself is not rotated.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized - no refresh token provided")
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch err {
		case service.ErrInvalidToken, service.ErrTokenExpired, service.ErrTokenRevoked:
			h.logger.Debug("Token refresh rejected", zap.Error(err))
			middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	setAccessCookie(w, accessToken, h.jwtCfg, h.secure)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "token refreshed successfully"})
}

// GetProfile returns the authenticated caller's identity.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user profile",
		"user":    user,
	})
}
