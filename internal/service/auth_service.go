package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt password hashing.
const BcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenRevoked       = errors.New("refresh token revoked")
)

// TokenPair is the two session credentials issued on login and signup.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Claims represents the JWT claims carried by both token kinds.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwt              config.JWTConfig
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtCfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwt:              jwtCfg,
	}
}

// Signup creates a new customer account with a hashed password and opens a
// session for it.
func (s *authService) Signup(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && err != repository.ErrUserNotFound {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Login authenticates a user and opens a session for it.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout revokes the refresh session behind the presented token. A token
// that no longer parses is treated as already logged out.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken, s.jwt.RefreshSecret)
	if err != nil {
		return nil
	}

	if err := s.refreshTokenRepo.Delete(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// Refresh mints a new access token for a valid, unrevoked refresh token.
// The presented token must exactly match the cached value for its user;
// the signature alone is not enough. The refresh token is not rotated.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, s.jwt.RefreshSecret)
	if err != nil {
		return "", err
	}

	stored, err := s.refreshTokenRepo.Get(ctx, claims.UserID)
	if err != nil {
		if err == repository.ErrRefreshTokenNotFound {
			return "", ErrTokenRevoked
		}
		return "", fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", ErrTokenRevoked
	}

	accessToken, err := s.signToken(claims.UserID, s.jwt.AccessSecret, s.jwt.AccessTTL())
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// GetUserByID retrieves a user by ID
func (s *authService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// openSession issues both tokens and persists the refresh token in the
// cache with a TTL equal to its validity window.
func (s *authService) openSession(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.signToken(userID, s.jwt.AccessSecret, s.jwt.AccessTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.signToken(userID, s.jwt.RefreshSecret, s.jwt.RefreshTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshTokenRepo.Store(ctx, userID, refreshToken, s.jwt.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) signToken(userID uuid.UUID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *authService) parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
