package services

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/redis/go-redis/v9"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var errDown = errors.New("connection refused")

// downStore fails every write, as if the database were unreachable
type downStore struct {
	*store.MemoryStore
}

func (downStore) CreateListing(context.Context, *models.Listing) (string, error) {
	return "", errDown
}

func (downStore) CreatePriceHistory(context.Context, *models.PriceHistory) (string, error) {
	return "", errDown
}

func (downStore) CreateSearchQuery(context.Context, *models.SearchQuery) (string, error) {
	return "", errDown
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func newSearch(st store.Store, rdb *redis.Client) *SearchService {
	return NewSearchService(
		st,
		providers.NewRegistry(config.ProvidersConfig{}),
		NewPriceEvents(rdb),
		NewTrendingService(rdb),
		clock.NewMockClock(epoch),
	)
}

func skus(results []models.ListingResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.SKU)
	}
	return out
}
