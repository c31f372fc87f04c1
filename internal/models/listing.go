/**
 * @description
 * Listing model: one normalized product offer observed at a point in time.
 * Stored in the 'listing' collection; never updated in place.
 *
 * @dependencies
 * - github.com/go-playground/validator/v10 (via Validate)
 */

package models

import (
	"time"
)

// Merchant identifies the store a listing came from
type Merchant string

const (
	MerchantAmazon   Merchant = "amazon"
	MerchantFlipkart Merchant = "flipkart"
	MerchantOther    Merchant = "other"
)

// DefaultCurrency is applied when a record arrives without a currency code
const DefaultCurrency = "INR"

// ListingResult is the shape produced by provider adapters and returned by search
type ListingResult struct {
	SKU          string   `json:"sku" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	ImageURL     *string  `json:"image_url"`
	URL          *string  `json:"url"`
	Merchant     Merchant `json:"merchant" validate:"required,oneof=amazon flipkart other"`
	Price        float64  `json:"price" validate:"gte=0"`
	Currency     string   `json:"currency" validate:"required,len=3"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	TotalReviews *int     `json:"total_reviews" validate:"omitempty,gte=0"`
	Availability *string  `json:"availability"`
}

// Listing is a persisted ListingResult
type Listing struct {
	ID string `json:"_id,omitempty"`
	ListingResult
	FetchedAt time.Time `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ToListing stamps a provider result with its fetch time
func (r ListingResult) ToListing(fetchedAt time.Time) *Listing {
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	return &Listing{
		ListingResult: r,
		FetchedAt:     fetchedAt,
	}
}

// ToPriceHistory derives the price observation recorded alongside a listing
func (r ListingResult) ToPriceHistory(at time.Time) *PriceHistory {
	currency := r.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &PriceHistory{
		SKU:       r.SKU,
		Merchant:  r.Merchant,
		Price:     r.Price,
		Currency:  currency,
		Timestamp: at,
	}
}

// Validate checks the listing before it is written
func (l *Listing) Validate() error {
	return validate.Struct(l)
}
