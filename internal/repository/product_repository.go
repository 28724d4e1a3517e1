package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	FindFeatured(ctx context.Context) ([]*domain.Product, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*domain.Product, error)
	Sample(ctx context.Context, n int) ([]*domain.ProductSummary, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, price, image_url, image_public_id, category, is_featured, count_in_stock, created_at, updated_at`

// Create inserts a new product into the catalog.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.ImagePublicID,
		product.Category,
		product.IsFeatured,
		product.CountInStock,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Delete removes a product by ID.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindAll returns every product in the catalog.
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryProducts(ctx, query)
}

// FindByCategory returns the products carrying the given category label.
func (r *productRepository) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at DESC`
	return r.queryProducts(ctx, query, category)
}

// FindFeatured returns the admin-curated featured subset.
func (r *productRepository) FindFeatured(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_featured ORDER BY created_at DESC`
	return r.queryProducts(ctx, query)
}

// SetFeatured flips the featured flag and returns the updated product.
func (r *productRepository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*domain.Product, error) {
	query := `
		UPDATE products
		SET is_featured = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, featured))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update featured flag: %w", err)
	}

	return product, nil
}

// Sample returns up to n products chosen uniformly at random without
// replacement, projected to display fields only.
func (r *productRepository) Sample(ctx context.Context, n int) ([]*domain.ProductSummary, error) {
	query := `
		SELECT id, name, description, price, image_url
		FROM products
		ORDER BY random()
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to sample products: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.ProductSummary
	for rows.Next() {
		s := &domain.ProductSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Count returns the total number of products.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.ImagePublicID,
		&product.Category,
		&product.IsFeatured,
		&product.CountInStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
