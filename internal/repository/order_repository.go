package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
)

var ErrOrderAlreadyExists = errors.New("order for this gateway order already exists")

// DailySales is one day of the trailing sales series.
type DailySales struct {
	Date    string  `json:"date"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// SalesTotals aggregates all-time order counts and revenue.
type SalesTotals struct {
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Totals(ctx context.Context) (*SalesTotals, error)
	DailySales(ctx context.Context, start, end time.Time) ([]DailySales, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists an order and its line items in one transaction. A second
// order for the same gateway order id trips the unique index and is
// reported as ErrOrderAlreadyExists.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, total_amount, razorpay_order_id, razorpay_payment_id, razorpay_signature, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.UserID,
		order.TotalAmount,
		order.RazorpayOrderID,
		order.RazorpayPaymentID,
		order.RazorpaySignature,
		order.PaymentStatus,
		order.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrOrderAlreadyExists
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// Totals returns the all-time count of paid orders and their revenue.
func (r *orderRepository) Totals(ctx context.Context) (*SalesTotals, error) {
	query := `
		SELECT count(*), COALESCE(sum(total_amount), 0)
		FROM orders
		WHERE payment_status = 'paid'
	`

	totals := &SalesTotals{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&totals.TotalSales, &totals.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate sales totals: %w", err)
	}

	return totals, nil
}

// DailySales returns one row per calendar day in [start, end], including
// days with no orders.
func (r *orderRepository) DailySales(ctx context.Context, start, end time.Time) ([]DailySales, error) {
	query := `
		SELECT to_char(d.day, 'YYYY-MM-DD'),
		       count(o.id),
		       COALESCE(sum(o.total_amount), 0)
		FROM generate_series($1::date, $2::date, interval '1 day') AS d(day)
		LEFT JOIN orders o
		       ON o.created_at >= d.day
		      AND o.created_at < d.day + interval '1 day'
		      AND o.payment_status = 'paid'
		GROUP BY d.day
		ORDER BY d.day
	`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	var series []DailySales
	for rows.Next() {
		var day DailySales
		if err := rows.Scan(&day.Date, &day.Sales, &day.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		series = append(series, day)
	}

	return series, rows.Err()
}
