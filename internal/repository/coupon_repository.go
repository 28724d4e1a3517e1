package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errors.New("coupon not found or inactive")

// CouponRepository defines the interface for coupon data access
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error)
	FindActiveByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.Coupon, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type couponRepository struct {
	db *sql.DB
}

// NewCouponRepository creates a new instance of CouponRepository
func NewCouponRepository(db *sql.DB) CouponRepository {
	return &couponRepository{db: db}
}

const couponColumns = `id, code, discount_percentage, expiration_date, user_id, is_active, created_at`

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		coupon.ID,
		coupon.Code,
		coupon.DiscountPercentage,
		coupon.ExpirationDate,
		coupon.UserID,
		coupon.IsActive,
		coupon.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

// FindActiveByUser returns the user's currently active coupon.
func (r *couponRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE user_id = $1 AND is_active`
	return r.scanCoupon(r.db.QueryRowContext(ctx, query, userID))
}

// FindActiveByUserAndCode matches the code case-insensitively against the
// user's active coupon.
func (r *couponRepository) FindActiveByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE user_id = $1 AND lower(code) = lower($2) AND is_active
	`
	return r.scanCoupon(r.db.QueryRowContext(ctx, query, userID, code))
}

// Deactivate marks a coupon as spent or expired.
func (r *couponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE coupons SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate coupon: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

// DeleteByUser removes any coupon owned by the user, active or not.
func (r *couponRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete coupons: %w", err)
	}
	return nil
}

func (r *couponRepository) scanCoupon(row *sql.Row) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}
	err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountPercentage,
		&coupon.ExpirationDate,
		&coupon.UserID,
		&coupon.IsActive,
		&coupon.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}

	return coupon, nil
}
