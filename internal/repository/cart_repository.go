package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var ErrCartItemNotFound = errors.New("product not found in cart")

// CartRepository persists the per-user cart line items.
type CartRepository interface {
	Items(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// Items returns the user's cart lines in insertion order.
func (r *cartRepository) Items(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Add inserts a new line with quantity 1, or increments the quantity if a
// line for the product already exists, then returns the updated cart.
func (r *cartRepository) Add(ctx context.Context, userID, productID uuid.UUID) ([]domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
	`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return r.Items(ctx, userID)
}

// SetQuantity updates the quantity of an existing line. A quantity of zero
// removes the line. Returns ErrCartItemNotFound when no line exists.
func (r *cartRepository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	var (
		result sql.Result
		err    error
	)

	if quantity == 0 {
		result, err = r.db.ExecContext(
			ctx,
			`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
			userID, productID,
		)
	} else {
		result, err = r.db.ExecContext(
			ctx,
			`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
			userID, productID, quantity,
		)
	}

	if err != nil {
		return fmt.Errorf("failed to update cart quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Remove deletes the line for the given product. Removing an absent line
// is not an error; the cart simply stays as it is.
func (r *cartRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.ExecContext(
		ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear empties the user's cart unconditionally.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
