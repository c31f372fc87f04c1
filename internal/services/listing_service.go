package services

import (
	"context"
	"errors"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/store"
)

const (
	DefaultListingLimit = 50
	DefaultHistoryLimit = 50
	MaxQueryLimit       = 200
)

var ErrPriceNotFound = errors.New("no price recorded")

// ListingService serves stored listings and price history
type ListingService struct {
	store  store.Store
	events *PriceEvents
}

func NewListingService(st store.Store, events *PriceEvents) *ListingService {
	return &ListingService{store: st, events: events}
}

// Listings returns listings newest first, optionally filtered by sku and merchant
func (s *ListingService) Listings(ctx context.Context, sku, merchant string, limit int) ([]models.Listing, error) {
	return s.store.FindListings(ctx, store.ListingFilter{
		SKU:      sku,
		Merchant: merchant,
		Limit:    clampLimit(limit, DefaultListingLimit),
	})
}

// History returns a merchant's sku price observations newest first
func (s *ListingService) History(ctx context.Context, merchant, sku string, limit int) ([]models.PriceHistory, error) {
	return s.store.FindPriceHistory(ctx, store.HistoryFilter{
		Merchant: merchant,
		SKU:      sku,
		Limit:    clampLimit(limit, DefaultHistoryLimit),
	})
}

// LatestPrice prefers the Redis cache and falls back to the newest stored observation
func (s *ListingService) LatestPrice(ctx context.Context, merchant, sku string) (*models.PriceEvent, error) {
	cached, err := s.events.Latest(ctx, merchant, sku)
	if err != nil {
		logger.Warn("ListingService: latest price cache read failed for %s/%s: %v", merchant, sku, err)
	}
	if cached != nil {
		return cached, nil
	}

	history, err := s.History(ctx, merchant, sku, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrPriceNotFound
	}
	event := history[0].Event()
	return &event, nil
}

// clampLimit applies the default for non-positive limits and caps at MaxQueryLimit
func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}
