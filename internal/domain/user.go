package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to a user account.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered account. Email is stored lowercased and is
// unique across the store.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns a copy of the user safe to expose to callers: the
// password hash is never serialized, but clearing it as well keeps the
// struct safe to log.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// CartItem is a single line in a user's cart: a product reference plus a
// quantity of at least 1.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
}
