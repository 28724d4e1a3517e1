package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment states of an order.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Order is an immutable record of a completed checkout. Line prices are
// captured at purchase time and do not track later catalog changes.
type Order struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	UserID            uuid.UUID   `json:"user_id" db:"user_id"`
	Items             []OrderItem `json:"items"`
	TotalAmount       float64     `json:"total_amount" db:"total_amount"`
	RazorpayOrderID   string      `json:"razorpay_order_id" db:"razorpay_order_id"`
	RazorpayPaymentID string      `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	RazorpaySignature string      `json:"-" db:"razorpay_signature"`
	PaymentStatus     string      `json:"payment_status" db:"payment_status"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}
