package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/gateway"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RewardThreshold is the pre-discount order total (in currency units) at
// which a reward coupon is issued.
const RewardThreshold = 2000

const checkoutCurrency = "INR"

var (
	ErrEmptyCheckout    = errors.New("checkout requires at least one product")
	ErrInvalidSignature = errors.New("invalid payment signature")
)

// CheckoutLine is one client-requested line: the product reference and the
// desired quantity. Prices are never taken from the client; they are read
// back from the catalog.
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutSession is the handle returned to the client to complete payment
// against the gateway.
type CheckoutSession struct {
	RazorpayOrderID string  `json:"razorpay_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// orderNoteLine is the line-item snapshot embedded in the gateway order's
// notes so the order can be reconstructed on the payment callback without
// re-trusting the client.
type orderNoteLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutService drives a checkout attempt: price the cart, create the
// gateway order, then record the immutable order once the gateway's
// payment callback has been verified.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, lines []CheckoutLine, couponCode string) (*CheckoutSession, error)
	ConfirmSession(ctx context.Context, orderID, paymentID, signature string) (uuid.UUID, error)
}

type checkoutService struct {
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	coupons     CouponService
	gateway     gateway.Client
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	coupons CouponService,
	gw gateway.Client,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		coupons:     coupons,
		gateway:     gw,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateSession prices the requested lines against the catalog, applies
// the user's coupon if the supplied code matches their active one, and
// creates a gateway order for the discounted amount. No order record is
// persisted yet. A reward coupon is issued when the pre-discount subtotal
// reaches the threshold.
func (s *checkoutService) CreateSession(ctx context.Context, userID uuid.UUID, lines []CheckoutLine, couponCode string) (*CheckoutSession, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCheckout
	}

	var subtotal float64
	noteLines := make([]orderNoteLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		subtotal += product.Price * float64(line.Quantity)
		noteLines = append(noteLines, orderNoteLine{
			ID:       product.ID.String(),
			Name:     product.Name,
			Image:    product.ImageURL,
			Quantity: line.Quantity,
			Price:    product.Price,
		})
	}

	total := subtotal
	var discount float64
	if couponCode != "" {
		coupon, err := s.couponRepo.FindActiveByUserAndCode(ctx, userID, couponCode)
		if err != nil && err != repository.ErrCouponNotFound {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		if coupon != nil {
			discount = subtotal * float64(coupon.DiscountPercentage) / 100
			total = subtotal - discount
		}
	}

	serializedLines, err := json.Marshal(noteLines)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize order lines: %w", err)
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   int64(math.Round(total * 100)),
		Currency: checkoutCurrency,
		Receipt:  fmt.Sprintf("order_rcptid_%d", s.now().UnixMilli()),
		Notes: map[string]string{
			"userId":     userID.String(),
			"couponCode": couponCode,
			"products":   string(serializedLines),
			"discount":   strconv.FormatFloat(discount, 'f', -1, 64),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	if subtotal >= RewardThreshold {
		if _, err := s.coupons.IssueReward(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to issue reward coupon: %w", err)
		}
	}

	return &CheckoutSession{
		RazorpayOrderID: order.ID,
		Amount:          total,
		Currency:        checkoutCurrency,
	}, nil
}

// ConfirmSession handles the gateway's payment callback. The signature is
// the sole integrity guarantee, so it is checked first; after that the
// authoritative order is fetched from the gateway rather than trusting the
// callback body. The spent coupon is deactivated and the immutable order
// record written. Re-running a valid confirmation is rejected by the
// unique gateway-order-id constraint.
func (s *checkoutService) ConfirmSession(ctx context.Context, orderID, paymentID, signature string) (uuid.UUID, error) {
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return uuid.Nil, ErrInvalidSignature
	}

	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to fetch gateway order: %w", err)
	}

	userID, err := uuid.Parse(order.Notes["userId"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("gateway order %s has invalid user metadata: %w", orderID, err)
	}

	if couponCode := order.Notes["couponCode"]; couponCode != "" {
		s.deactivateCoupon(ctx, userID, couponCode)
	}

	var noteLines []orderNoteLine
	if err := json.Unmarshal([]byte(order.Notes["products"]), &noteLines); err != nil {
		return uuid.Nil, fmt.Errorf("gateway order %s has invalid line metadata: %w", orderID, err)
	}

	items := make([]domain.OrderItem, 0, len(noteLines))
	for _, line := range noteLines {
		productID, err := uuid.Parse(line.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("gateway order %s has invalid product id %q: %w", orderID, line.ID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID: productID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	record := &domain.Order{
		ID:                uuid.New(),
		UserID:            userID,
		Items:             items,
		TotalAmount:       float64(order.Amount) / 100,
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: signature,
		PaymentStatus:     domain.PaymentStatusPaid,
		CreatedAt:         s.now(),
	}

	if err := s.orderRepo.Create(ctx, record); err != nil {
		return uuid.Nil, err
	}

	return record.ID, nil
}

// deactivateCoupon marks the spent coupon inactive. A coupon that is
// already gone is not an error on the callback path.
func (s *checkoutService) deactivateCoupon(ctx context.Context, userID uuid.UUID, code string) {
	coupon, err := s.couponRepo.FindActiveByUserAndCode(ctx, userID, code)
	if err != nil {
		if err != repository.ErrCouponNotFound {
			s.logger.Warn("Failed to look up spent coupon", zap.String("code", code), zap.Error(err))
		}
		return
	}

	if err := s.couponRepo.Deactivate(ctx, coupon.ID); err != nil {
		s.logger.Warn("Failed to deactivate spent coupon", zap.String("code", code), zap.Error(err))
	}
}
