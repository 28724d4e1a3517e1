package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a per-user discount code. A user has at most one active coupon
// at a time; issuing a new one replaces any existing coupon.
type Coupon struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Code               string    `json:"code" db:"code"`
	DiscountPercentage int       `json:"discount_percentage" db:"discount_percentage"`
	ExpirationDate     time.Time `json:"expiration_date" db:"expiration_date"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the coupon's expiration date has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpirationDate.Before(now)
}
