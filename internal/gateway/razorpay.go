package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"storefront/internal/config"

	razorpay "github.com/razorpay/razorpay-go"
)

type razorpayClient struct {
	client    *razorpay.Client
	keySecret string
}

// NewRazorpay creates a Client backed by the Razorpay Orders API.
func NewRazorpay(cfg config.RazorpayConfig) Client {
	return &razorpayClient{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keySecret: cfg.KeySecret,
	}
}

// CreateOrder creates a remote order. The Razorpay SDK does not take a
// context; the ctx parameter is accepted for interface symmetry.
func (c *razorpayClient) CreateOrder(_ context.Context, req CreateOrderRequest) (*Order, error) {
	notes := make(map[string]interface{}, len(req.Notes))
	for k, v := range req.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	return orderFromResponse(body), nil
}

// FetchOrder retrieves the authoritative order record from the gateway.
func (c *razorpayClient) FetchOrder(_ context.Context, orderID string) (*Order, error) {
	body, err := c.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gateway order %s: %w", orderID, err)
	}

	return orderFromResponse(body), nil
}

// VerifySignature recomputes the callback HMAC over "orderID|paymentID"
// and compares in constant time.
func (c *razorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

// VerifySignature checks a Razorpay payment callback signature: an
// HMAC-SHA256 over the order and payment ids joined by a pipe, hex encoded.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func orderFromResponse(body map[string]interface{}) *Order {
	order := &Order{}

	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	if receipt, ok := body["receipt"].(string); ok {
		order.Receipt = receipt
	}
	// The SDK decodes JSON numbers as float64.
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	}

	if rawNotes, ok := body["notes"].(map[string]interface{}); ok {
		order.Notes = make(map[string]string, len(rawNotes))
		for k, v := range rawNotes {
			if s, ok := v.(string); ok {
				order.Notes[k] = s
			}
		}
	}

	return order
}
