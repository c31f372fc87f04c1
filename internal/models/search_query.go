package models

import (
	"time"
)

// SearchQuery is the write-only analytics record kept for every search request
type SearchQuery struct {
	ID        string    `json:"_id,omitempty"`
	Query     string    `json:"query" validate:"required"`
	UserID    *string   `json:"user_id"`
	Providers []string  `json:"providers" validate:"dive,oneof=amazon flipkart"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the record before it is written
func (q *SearchQuery) Validate() error {
	return validate.Struct(q)
}
