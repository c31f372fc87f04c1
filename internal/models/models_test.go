package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validResult() ListingResult {
	return ListingResult{
		SKU:          "AMZ-1",
		Title:        "Phone - Amazon Variant 1",
		Merchant:     MerchantAmazon,
		Price:        1049.5,
		Currency:     "INR",
		Rating:       ptr(4.2),
		TotalReviews: ptr(1215),
	}
}

func TestListingValidate(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validResult().ToListing(at).Validate())
	})

	t.Run("negative price", func(t *testing.T) {
		r := validResult()
		r.Price = -1
		err := r.ToListing(at).Validate()
		require.Error(t, err)
		assert.Contains(t, ValidationDetails(err), "price: gte=0")
	})

	t.Run("unknown merchant", func(t *testing.T) {
		r := validResult()
		r.Merchant = "ebay"
		assert.Error(t, r.ToListing(at).Validate())
	})

	t.Run("rating out of range", func(t *testing.T) {
		r := validResult()
		r.Rating = ptr(5.5)
		assert.Error(t, r.ToListing(at).Validate())
	})

	t.Run("missing currency defaults to INR", func(t *testing.T) {
		r := validResult()
		r.Currency = ""
		l := r.ToListing(at)
		assert.Equal(t, DefaultCurrency, l.Currency)
		assert.NoError(t, l.Validate())
	})
}

func TestToPriceHistory(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := validResult()

	ph := r.ToPriceHistory(at)
	require.NoError(t, ph.Validate())
	assert.Equal(t, "AMZ-1", ph.SKU)
	assert.Equal(t, MerchantAmazon, ph.Merchant)
	assert.Equal(t, 1049.5, ph.Price)
	assert.Equal(t, at, ph.Timestamp)

	ev := ph.Event()
	assert.Equal(t, ph.Price, ev.Price)
	assert.Equal(t, ph.Timestamp, ev.Timestamp)
}

func TestFavoriteValidate(t *testing.T) {
	fav := &Favorite{UserID: "u1", SKU: "FK-2", Title: "Laptop", Merchant: MerchantFlipkart, Price: Float64Ptr(10), Currency: "INR"}
	assert.NoError(t, fav.Validate())

	fav.UserID = ""
	err := fav.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"user_id: required"}, ValidationDetails(err))

	fav.UserID = "u1"
	fav.Price = nil
	assert.Equal(t, []string{"price: required"}, ValidationDetails(fav.Validate()))

	fav.Price = Float64Ptr(-1)
	assert.Equal(t, []string{"price: gte=0"}, ValidationDetails(fav.Validate()))
}

func TestSearchQueryValidate(t *testing.T) {
	q := &SearchQuery{Query: "phone", Providers: []string{"amazon", "flipkart"}}
	assert.NoError(t, q.Validate())

	q.Providers = []string{"bogus"}
	assert.Error(t, q.Validate())

	q.Providers = nil
	assert.NoError(t, q.Validate(), "an empty provider list is still a valid analytics record")
}
