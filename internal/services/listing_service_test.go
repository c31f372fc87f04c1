package services

import (
	"context"
	"testing"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingsAndHistoryLimits(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("dealwise", nil)
	svc := newSearch(st, nil)
	for i := 0; i < 3; i++ {
		_, err := svc.Search(ctx, SearchParams{Query: "phone", Limit: 2})
		require.NoError(t, err)
	}

	listings := NewListingService(st, nil)

	all, err := listings.Listings(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	fk, err := listings.Listings(ctx, "", "flipkart", 0)
	require.NoError(t, err)
	assert.Len(t, fk, 6)

	one, err := listings.Listings(ctx, "AMZ-2", "amazon", 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "AMZ-2", one[0].SKU)

	hist, err := listings.History(ctx, "amazon", "AMZ-1", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 3)

	none, err := listings.History(ctx, "flipkart", "AMZ-1", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0, 50))
	assert.Equal(t, 50, clampLimit(-3, 50))
	assert.Equal(t, 7, clampLimit(7, 50))
	assert.Equal(t, MaxQueryLimit, clampLimit(10000, 50))
}

func TestLatestPriceFromCache(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	st := store.NewMemoryStore("dealwise", nil)
	svc := newSearch(st, rdb)
	_, err := svc.Search(ctx, SearchParams{Query: "phone", Limit: 1, Providers: "flipkart"})
	require.NoError(t, err)

	latest, err := NewListingService(st, NewPriceEvents(rdb)).LatestPrice(ctx, "flipkart", "FK-1")
	require.NoError(t, err)
	assert.Equal(t, 1027.3, latest.Price)
	assert.Equal(t, "INR", latest.Currency)
	assert.True(t, epoch.Equal(latest.Timestamp))
}

func TestLatestPriceFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore("dealwise", nil)
	for i, price := range []float64{10, 12} {
		_, err := st.CreatePriceHistory(ctx, &models.PriceHistory{
			SKU: "AMZ-1", Merchant: "amazon", Price: price, Currency: "INR",
			Timestamp: epoch.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	svc := NewListingService(st, NewPriceEvents(nil))
	latest, err := svc.LatestPrice(ctx, "amazon", "AMZ-1")
	require.NoError(t, err)
	assert.Equal(t, 12.0, latest.Price)

	_, err = svc.LatestPrice(ctx, "amazon", "AMZ-404")
	assert.ErrorIs(t, err, ErrPriceNotFound)
}
