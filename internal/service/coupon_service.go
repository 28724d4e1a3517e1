package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Reward coupon parameters: issued automatically on large checkouts.
const (
	rewardCodePrefix   = "GIFT"
	rewardCodeLength   = 6
	rewardDiscount     = 10
	rewardValidityDays = 30
	rewardCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrCouponExpired = errors.New("coupon expired")

// ValidatedCoupon is the successful result of coupon validation.
type ValidatedCoupon struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount"`
}

// CouponService defines the interface for coupon business logic
type CouponService interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error)
	Validate(ctx context.Context, userID uuid.UUID, code string) (*ValidatedCoupon, error)
	IssueReward(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new instance of CouponService
func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// GetActive returns the user's active coupon, or nil when there is none.
func (s *couponService) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	coupon, err := s.couponRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if err == repository.ErrCouponNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find coupon: %w", err)
	}
	return coupon, nil
}

// Validate matches the code case-insensitively against the user's active
// coupon. Expiry is checked lazily: an expired coupon is deactivated here
// and reported as ErrCouponExpired, so a repeat validation sees it as not
// found.
func (s *couponService) Validate(ctx context.Context, userID uuid.UUID, code string) (*ValidatedCoupon, error) {
	coupon, err := s.couponRepo.FindActiveByUserAndCode(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	if coupon.Expired(s.now()) {
		if err := s.couponRepo.Deactivate(ctx, coupon.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate expired coupon: %w", err)
		}
		return nil, ErrCouponExpired
	}

	return &ValidatedCoupon{
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	}, nil
}

// IssueReward replaces any coupon the user holds with a fresh reward
// coupon: random GIFT code, fixed discount, 30-day validity.
func (s *couponService) IssueReward(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	if err := s.couponRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete prior coupon: %w", err)
	}

	code, err := randomCode(rewardCodePrefix, rewardCodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coupon code: %w", err)
	}

	now := s.now()
	coupon := &domain.Coupon{
		ID:                 uuid.New(),
		Code:               code,
		DiscountPercentage: rewardDiscount,
		ExpirationDate:     now.Add(rewardValidityDays * 24 * time.Hour),
		UserID:             userID,
		IsActive:           true,
		CreatedAt:          now,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return coupon, nil
}

func randomCode(prefix string, length int) (string, error) {
	suffix := make([]byte, length)
	max := big.NewInt(int64(len(rewardCodeAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = rewardCodeAlphabet[n.Int64()]
	}
	return prefix + string(suffix), nil
}
