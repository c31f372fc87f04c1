package store

import (
	"context"
	"testing"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create favorite returns hex id", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, clock.NewMockClock(epoch))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := s.CreateFavorite(context.Background(), &models.Favorite{
			UserID: "u1", SKU: "AMZ-1", Title: "Phone", Merchant: "amazon", Price: models.Float64Ptr(1049.5), Currency: "INR",
		})
		require.NoError(t, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(t, err)
	})

	mt.Run("create validates before writing", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		_, err := s.CreateFavorite(context.Background(), &models.Favorite{SKU: "AMZ-1"})
		assert.Error(t, err)
	})

	mt.Run("find listings decodes documents", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		oid := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + CollectionListing
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "sku", Value: "AMZ-1"},
			{Key: "title", Value: "Phone - Amazon Variant 1"},
			{Key: "merchant", Value: "amazon"},
			{Key: "price", Value: int32(1009)},
			{Key: "currency", Value: "INR"},
			{Key: "rating", Value: 4.2},
			{Key: "fetched_at", Value: primitive.NewDateTimeFromTime(epoch)},
		}))

		listings, err := s.FindListings(context.Background(), ListingFilter{SKU: "AMZ-1", Limit: 50})
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, oid.Hex(), listings[0].ID)
		assert.Equal(t, 1009.0, listings[0].Price)
		assert.Equal(t, models.MerchantAmazon, listings[0].Merchant)
		require.NotNil(t, listings[0].Rating)
		assert.Equal(t, 4.2, *listings[0].Rating)
		assert.Nil(t, listings[0].ImageURL)
		assert.True(t, epoch.Equal(listings[0].FetchedAt))
	})

	mt.Run("find propagates server errors", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := s.FindPriceHistory(context.Background(), HistoryFilter{Merchant: "amazon", SKU: "AMZ-1"})
		assert.Error(t, err)
	})

	mt.Run("delete favorite reports count", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		n, err := s.DeleteFavorite(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	mt.Run("delete missing favorite is not an error", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		n, err := s.DeleteFavorite(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})

	mt.Run("delete rejects malformed id", func(mt *mtest.T) {
		s := NewMongoStoreWithDatabase(mt.DB, nil)
		_, err := s.DeleteFavorite(context.Background(), "xyz")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestMongoStoreUnreachableFailsFast(t *testing.T) {
	clk := clock.NewMockClock(epoch)
	s := NewMongoStore(&config.Config{
		DB: config.DBConfig{URL: "mongodb://127.0.0.1:1", Name: "dealwise", Backend: config.BackendMongo},
	})
	s.clock = clk
	s.connectTimeout = 500 * time.Millisecond

	// A caller with a short deadline does not wait for the whole attempt
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := s.FindListings(ctx, ListingFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 400*time.Millisecond)

	// Joins the in-flight attempt and sees its failure
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)

	start = time.Now()
	_, err = s.CreateSearchQuery(context.Background(), &models.SearchQuery{Query: "phone"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 50*time.Millisecond, "failure is remembered")

	clk.Advance(ConnectRetryAfter)
	start = time.Now()
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond, "retried after the backoff window")

	assert.Equal(t, "dealwise", s.Name())
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, "dealwise", s.Name())
}
