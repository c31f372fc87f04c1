/**
 * @description
 * Price History model.
 * Append-only price observations per (sku, merchant), stored in 'pricehistory'.
 */

package models

import (
	"time"
)

// PriceHistory represents one observed price for a merchant's sku
type PriceHistory struct {
	ID        string    `json:"_id,omitempty"`
	SKU       string    `json:"sku" validate:"required"`
	Merchant  Merchant  `json:"merchant" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	Currency  string    `json:"currency" validate:"required,len=3"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the record before it is written
func (p *PriceHistory) Validate() error {
	return validate.Struct(p)
}

// PriceEvent is published whenever a new price observation is stored
type PriceEvent struct {
	SKU       string    `json:"sku"`
	Merchant  Merchant  `json:"merchant"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// Event converts a stored observation into its published form
func (p *PriceHistory) Event() PriceEvent {
	return PriceEvent{
		SKU:       p.SKU,
		Merchant:  p.Merchant,
		Price:     p.Price,
		Currency:  p.Currency,
		Timestamp: p.Timestamp,
	}
}
