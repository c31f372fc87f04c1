/**
 * @description
 * Favorite model: a listing a user explicitly saved.
 * Stored in 'favorite'. Duplicate (user_id, sku) pairs are allowed.
 */

package models

import (
	"time"
)

// Favorite represents a saved listing owned by exactly one user
type Favorite struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"user_id" validate:"required"`
	SKU       string    `json:"sku" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	ImageURL  *string   `json:"image_url"`
	URL       *string   `json:"url"`
	Merchant  Merchant  `json:"merchant" validate:"required"`
	Price     *float64  `json:"price" validate:"required,gte=0"`
	Currency  string    `json:"currency" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the favorite before it is written
func (f *Favorite) Validate() error {
	return validate.Struct(f)
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 { return &v }
