package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCouponRepository struct {
	coupons map[uuid.UUID]*domain.Coupon
}

func newMockCouponRepository() *mockCouponRepository {
	return &mockCouponRepository{
		coupons: make(map[uuid.UUID]*domain.Coupon),
	}
}

func (m *mockCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	clone := *coupon
	m.coupons[coupon.ID] = &clone
	return nil
}

func (m *mockCouponRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Coupon, error) {
	for _, coupon := range m.coupons {
		if coupon.UserID == userID && coupon.IsActive {
			clone := *coupon
			return &clone, nil
		}
	}
	return nil, repository.ErrCouponNotFound
}

func (m *mockCouponRepository) FindActiveByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*domain.Coupon, error) {
	for _, coupon := range m.coupons {
		if coupon.UserID == userID && coupon.IsActive && strings.EqualFold(coupon.Code, code) {
			clone := *coupon
			return &clone, nil
		}
	}
	return nil, repository.ErrCouponNotFound
}

func (m *mockCouponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	coupon, exists := m.coupons[id]
	if !exists {
		return repository.ErrCouponNotFound
	}
	coupon.IsActive = false
	return nil
}

func (m *mockCouponRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for id, coupon := range m.coupons {
		if coupon.UserID == userID {
			delete(m.coupons, id)
		}
	}
	return nil
}

func newCouponServiceAt(repo repository.CouponRepository, now time.Time) CouponService {
	return &couponService{
		couponRepo: repo,
		now:        func() time.Time { return now },
	}
}

func TestIssueReward_GeneratesWellFormedCoupon(t *testing.T) {
	repo := newMockCouponRepository()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newCouponServiceAt(repo, now)
	userID := uuid.New()

	coupon, err := service.IssueReward(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(coupon.Code, "GIFT"))
	assert.Len(t, coupon.Code, len("GIFT")+6)
	assert.Equal(t, 10, coupon.DiscountPercentage)
	assert.Equal(t, userID, coupon.UserID)
	assert.True(t, coupon.IsActive)
	assert.Equal(t, now.Add(30*24*time.Hour), coupon.ExpirationDate)

	for _, ch := range coupon.Code[len("GIFT"):] {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(ch))
	}
}

func TestIssueReward_ReplacesExistingCoupon(t *testing.T) {
	repo := newMockCouponRepository()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newCouponServiceAt(repo, now)
	userID := uuid.New()
	ctx := context.Background()

	first, err := service.IssueReward(ctx, userID)
	require.NoError(t, err)

	second, err := service.IssueReward(ctx, userID)
	require.NoError(t, err)

	// Only the newest coupon survives
	require.Len(t, repo.coupons, 1)
	active, err := service.GetActive(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.Code, active.Code)
	assert.NotEqual(t, first.ID, active.ID)
}

func TestValidate_MatchesCaseInsensitively(t *testing.T) {
	repo := newMockCouponRepository()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newCouponServiceAt(repo, now)
	userID := uuid.New()
	ctx := context.Background()

	coupon, err := service.IssueReward(ctx, userID)
	require.NoError(t, err)

	validated, err := service.Validate(ctx, userID, strings.ToLower(coupon.Code))
	require.NoError(t, err)
	assert.Equal(t, coupon.Code, validated.Code)
	assert.Equal(t, coupon.DiscountPercentage, validated.DiscountPercentage)
}

func TestValidate_RejectsOtherUsersCoupon(t *testing.T) {
	repo := newMockCouponRepository()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newCouponServiceAt(repo, now)
	ctx := context.Background()

	coupon, err := service.IssueReward(ctx, uuid.New())
	require.NoError(t, err)

	_, err = service.Validate(ctx, uuid.New(), coupon.Code)
	assert.ErrorIs(t, err, repository.ErrCouponNotFound)
}

func TestValidate_LazyExpiry(t *testing.T) {
	repo := newMockCouponRepository()
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	ctx := context.Background()

	coupon, err := newCouponServiceAt(repo, issuedAt).IssueReward(ctx, userID)
	require.NoError(t, err)

	// 31 days later the coupon is past its 30-day validity. The first
	// validation reports expiry and deactivates it; the second sees it
	// as gone entirely.
	later := newCouponServiceAt(repo, issuedAt.Add(31*24*time.Hour))

	_, err = later.Validate(ctx, userID, coupon.Code)
	assert.ErrorIs(t, err, ErrCouponExpired)

	_, err = later.Validate(ctx, userID, coupon.Code)
	assert.ErrorIs(t, err, repository.ErrCouponNotFound)

	active, err := later.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestGetActive_NoCouponIsNotAnError(t *testing.T) {
	repo := newMockCouponRepository()
	service := NewCouponService(repo)

	coupon, err := service.GetActive(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, coupon)
}
