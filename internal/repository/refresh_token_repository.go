package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository stores the single valid refresh token per user.
// The cache entry is the source of truth for refresh-token validity: a
// token whose signature verifies is still rejected unless it equals the
// stored value.
type RefreshTokenRepository interface {
	Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type refreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository creates a Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client *redis.Client) RefreshTokenRepository {
	return &refreshTokenRepository{client: client}
}

func refreshTokenKey(userID uuid.UUID) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

// Store overwrites any previous refresh token for the user, so each user
// has at most one active refresh session.
func (r *refreshTokenRepository) Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshTokenKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Get returns the stored refresh token for the user.
func (r *refreshTokenRepository) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := r.client.Get(ctx, refreshTokenKey(userID)).Result()
	if err == redis.Nil {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return token, nil
}

// Delete revokes the user's refresh session.
func (r *refreshTokenRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, refreshTokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
