// Package gateway wraps the external payment provider. Checkout code
// depends on the Client interface only; the Razorpay implementation lives
// in razorpay.go.
package gateway

import (
	"context"
	"errors"
)

var ErrOrderNotFound = errors.New("gateway order not found")

// Order is the provider-side record of a pending charge. Amount is in the
// smallest currency subunit (paise for INR). Notes carry opaque metadata
// round-tripped through the provider.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// CreateOrderRequest describes a remote order to create.
type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Client is the payment gateway boundary: create a remote order, fetch it
// back authoritatively, and verify a payment callback signature.
type Client interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
