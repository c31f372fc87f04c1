package store

import (
	"context"
	"testing"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func listing(sku string, merchant models.Merchant, price float64, fetchedAt time.Time) *models.Listing {
	return models.ListingResult{
		SKU:      sku,
		Title:    "item " + sku,
		Merchant: merchant,
		Price:    price,
		Currency: "INR",
	}.ToListing(fetchedAt)
}

func TestMemoryStoreListings(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("dealwise", clock.NewMockClock(epoch))

	_, err := s.CreateListing(ctx, listing("AMZ-1", models.MerchantAmazon, 1049.5, epoch))
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, listing("AMZ-1", models.MerchantAmazon, 1000, epoch.Add(time.Hour)))
	require.NoError(t, err)
	_, err = s.CreateListing(ctx, listing("FK-1", models.MerchantFlipkart, 1027.3, epoch))
	require.NoError(t, err)

	all, err := s.FindListings(ctx, ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	amz, err := s.FindListings(ctx, ListingFilter{SKU: "AMZ-1"})
	require.NoError(t, err)
	require.Len(t, amz, 2)
	assert.Equal(t, 1000.0, amz[0].Price, "newest fetch first")
	assert.NotEmpty(t, amz[0].ID)
	assert.Equal(t, epoch, amz[0].CreatedAt)

	fk, err := s.FindListings(ctx, ListingFilter{Merchant: "flipkart", Limit: 5})
	require.NoError(t, err)
	require.Len(t, fk, 1)
	assert.Equal(t, "FK-1", fk[0].SKU)

	limited, err := s.FindListings(ctx, ListingFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStoreRejectsInvalidListing(t *testing.T) {
	s := NewMemoryStore("dealwise", nil)
	_, err := s.CreateListing(context.Background(), listing("AMZ-1", models.MerchantAmazon, -5, epoch))
	assert.Error(t, err)
}

func TestMemoryStorePriceHistory(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("dealwise", nil)

	for i := 0; i < 3; i++ {
		entry := &models.PriceHistory{
			SKU: "AMZ-1", Merchant: models.MerchantAmazon, Price: float64(100 + i),
			Currency: "INR", Timestamp: epoch.Add(time.Duration(i) * time.Minute),
		}
		_, err := s.CreatePriceHistory(ctx, entry)
		require.NoError(t, err)
	}
	_, err := s.CreatePriceHistory(ctx, &models.PriceHistory{
		SKU: "AMZ-1", Merchant: models.MerchantFlipkart, Price: 1, Currency: "INR", Timestamp: epoch,
	})
	require.NoError(t, err)

	hist, err := s.FindPriceHistory(ctx, HistoryFilter{Merchant: "amazon", SKU: "AMZ-1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 102.0, hist[0].Price)
	assert.Equal(t, 101.0, hist[1].Price)
}

func TestMemoryStoreFavorites(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(epoch)
	s := NewMemoryStore("dealwise", clk)

	fav := &models.Favorite{UserID: "u1", SKU: "AMZ-1", Title: "Phone", Merchant: "amazon", Price: models.Float64Ptr(1049.5), Currency: "INR"}
	first, err := s.CreateFavorite(ctx, fav)
	require.NoError(t, err)
	clk.Advance(time.Second)
	second, err := s.CreateFavorite(ctx, fav)
	require.NoError(t, err, "duplicates are allowed")
	_, err = s.CreateFavorite(ctx, &models.Favorite{UserID: "u2", SKU: "FK-1", Title: "x", Merchant: "flipkart", Price: models.Float64Ptr(0), Currency: "INR"})
	require.NoError(t, err)

	favs, err := s.FindFavorites(ctx, "u1", 200)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, second, favs[0].ID)
	assert.Equal(t, first, favs[1].ID)

	n, err := s.DeleteFavorite(ctx, first)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteFavorite(ctx, first)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = s.DeleteFavorite(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryStoreSearchQueriesAndCollections(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(epoch)
	s := NewMemoryStore("dealwise", clk)

	names, err := s.Collections(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, q := range []string{"phone", "laptop"} {
		_, err := s.CreateSearchQuery(ctx, &models.SearchQuery{Query: q, Providers: []string{"amazon"}})
		require.NoError(t, err)
		clk.Advance(time.Second)
	}

	recent, err := s.RecentSearchQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "laptop", recent[0].Query)

	names, err = s.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{CollectionSearchQuery}, names)
	assert.Equal(t, "dealwise", s.Name())
	assert.NoError(t, s.Ping(ctx))
}
