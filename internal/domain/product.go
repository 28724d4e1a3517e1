package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. Category is a free-form
// label used for storefront filtering.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	ImageURL      string    `json:"image" db:"image_url"`
	ImagePublicID string    `json:"-" db:"image_public_id"`
	Category      string    `json:"category" db:"category"`
	IsFeatured    bool      `json:"is_featured" db:"is_featured"`
	CountInStock  int       `json:"count_in_stock" db:"count_in_stock"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProductSummary is the display-only projection returned by the
// recommendations endpoint.
type ProductSummary struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image" db:"image_url"`
}

// CartProduct is a cart view line: live product data joined with the
// quantity held in the user's cart.
type CartProduct struct {
	Product
	Quantity int `json:"quantity"`
}
