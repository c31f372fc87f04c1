/**
 * @description
 * MongoDB backend for the Data Access Layer.
 * Connects lazily on first use and reuses the client for the process lifetime.
 * Documents are loosely typed in the store; the *Doc types below pin their shape
 * at the application boundary.
 *
 * @dependencies
 * - go.mongodb.org/mongo-driver
 */

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/db"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

var _ Store = (*MongoStore)(nil)

type listingDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	SKU          string             `bson:"sku"`
	Title        string             `bson:"title"`
	ImageURL     *string            `bson:"image_url"`
	URL          *string            `bson:"url"`
	Merchant     string             `bson:"merchant"`
	Price        float64            `bson:"price"`
	Currency     string             `bson:"currency"`
	Rating       *float64           `bson:"rating"`
	TotalReviews *int               `bson:"total_reviews"`
	Availability *string            `bson:"availability"`
	FetchedAt    time.Time          `bson:"fetched_at"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type priceHistoryDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	SKU       string             `bson:"sku"`
	Merchant  string             `bson:"merchant"`
	Price     float64            `bson:"price"`
	Currency  string             `bson:"currency"`
	Timestamp time.Time          `bson:"timestamp"`
	CreatedAt time.Time          `bson:"created_at"`
}

type favoriteDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    string             `bson:"user_id"`
	SKU       string             `bson:"sku"`
	Title     string             `bson:"title"`
	ImageURL  *string            `bson:"image_url"`
	URL       *string            `bson:"url"`
	Merchant  string             `bson:"merchant"`
	Price     float64            `bson:"price"`
	Currency  string             `bson:"currency"`
	CreatedAt time.Time          `bson:"created_at"`
}

type searchQueryDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Query     string             `bson:"query"`
	UserID    *string            `bson:"user_id,omitempty"`
	Providers []string           `bson:"providers"`
	CreatedAt time.Time          `bson:"created_at"`
}

// MongoStore implements Store on a MongoDB database
type MongoStore struct {
	cfg            *config.Config
	name           string
	clock          clock.Clock
	connectTimeout time.Duration

	connect singleflight.Group

	mu       sync.Mutex
	client   *mongo.Client
	mdb      *mongo.Database
	lastErr  error
	failedAt time.Time
}

// NewMongoStore returns a store that connects on first use
func NewMongoStore(cfg *config.Config) *MongoStore {
	return &MongoStore{
		cfg:            cfg,
		name:           cfg.DB.Name,
		clock:          clock.NewRealClock(),
		connectTimeout: ConnectTimeout,
	}
}

// NewMongoStoreWithDatabase wraps an already connected database
func NewMongoStoreWithDatabase(database *mongo.Database, clk clock.Clock) *MongoStore {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MongoStore{
		name:           database.Name(),
		clock:          clk,
		connectTimeout: ConnectTimeout,
		client:         database.Client(),
		mdb:            database,
	}
}

// database returns the shared handle, connecting if needed.
// Concurrent callers share one attempt and stop waiting when their ctx ends.
// A failed attempt is remembered for ConnectRetryAfter so callers fail fast during an outage.
func (s *MongoStore) database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	switch {
	case s.mdb != nil:
		database := s.mdb
		s.mu.Unlock()
		return database, nil
	case s.cfg == nil:
		s.mu.Unlock()
		return nil, unavailable(errors.New("mongo store is closed"))
	case s.lastErr != nil && s.clock.Now().Sub(s.failedAt) < ConnectRetryAfter:
		err := s.lastErr
		s.mu.Unlock()
		return nil, unavailable(err)
	}
	s.mu.Unlock()

	ch := s.connect.DoChan("connect", func() (interface{}, error) {
		connectCtx, cancel := context.WithTimeout(context.Background(), s.connectTimeout)
		defer cancel()

		client, database, err := db.ConnectMongo(connectCtx, s.cfg)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.lastErr, s.failedAt = err, s.clock.Now()
			return nil, err
		}
		s.client, s.mdb, s.lastErr = client, database, nil
		return database, nil
	})

	select {
	case <-ctx.Done():
		return nil, unavailable(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, unavailable(res.Err)
		}
		return res.Val.(*mongo.Database), nil
	}
}

func (s *MongoStore) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	database, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	return database.Collection(name), nil
}

// createDocument inserts doc and returns its hex identifier
func (s *MongoStore) createDocument(ctx context.Context, collection string, id primitive.ObjectID, doc interface{}) (string, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return "", err
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return "", classifyMongo(err)
	}
	return id.Hex(), nil
}

// getDocuments runs a find with optional sort and limit
func getDocuments[T any](ctx context.Context, s *MongoStore, collection string, filter bson.D, sortBy string, limit int) ([]T, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if sortBy != "" {
		opts.SetSort(bson.D{{Key: sortBy, Value: -1}})
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, classifyMongo(err)
	}

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classifyMongo(err)
	}
	return docs, nil
}

func (s *MongoStore) CreateListing(ctx context.Context, listing *models.Listing) (string, error) {
	if err := listing.Validate(); err != nil {
		return "", err
	}
	doc := listingDoc{
		ID:           primitive.NewObjectID(),
		SKU:          listing.SKU,
		Title:        listing.Title,
		ImageURL:     listing.ImageURL,
		URL:          listing.URL,
		Merchant:     string(listing.Merchant),
		Price:        listing.Price,
		Currency:     listing.Currency,
		Rating:       listing.Rating,
		TotalReviews: listing.TotalReviews,
		Availability: listing.Availability,
		FetchedAt:    listing.FetchedAt,
		CreatedAt:    s.clock.Now(),
	}
	return s.createDocument(ctx, CollectionListing, doc.ID, doc)
}

func (s *MongoStore) CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	doc := priceHistoryDoc{
		ID:        primitive.NewObjectID(),
		SKU:       entry.SKU,
		Merchant:  string(entry.Merchant),
		Price:     entry.Price,
		Currency:  entry.Currency,
		Timestamp: entry.Timestamp,
		CreatedAt: s.clock.Now(),
	}
	return s.createDocument(ctx, CollectionPriceHistory, doc.ID, doc)
}

func (s *MongoStore) CreateSearchQuery(ctx context.Context, query *models.SearchQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}
	providers := query.Providers
	if providers == nil {
		providers = []string{}
	}
	doc := searchQueryDoc{
		ID:        primitive.NewObjectID(),
		Query:     query.Query,
		UserID:    query.UserID,
		Providers: providers,
		CreatedAt: s.clock.Now(),
	}
	return s.createDocument(ctx, CollectionSearchQuery, doc.ID, doc)
}

func (s *MongoStore) CreateFavorite(ctx context.Context, fav *models.Favorite) (string, error) {
	if err := fav.Validate(); err != nil {
		return "", err
	}
	doc := favoriteDoc{
		ID:        primitive.NewObjectID(),
		UserID:    fav.UserID,
		SKU:       fav.SKU,
		Title:     fav.Title,
		ImageURL:  fav.ImageURL,
		URL:       fav.URL,
		Merchant:  string(fav.Merchant),
		Price:     *fav.Price,
		Currency:  fav.Currency,
		CreatedAt: s.clock.Now(),
	}
	return s.createDocument(ctx, CollectionFavorite, doc.ID, doc)
}

func (s *MongoStore) FindListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	q := bson.D{}
	if filter.SKU != "" {
		q = append(q, bson.E{Key: "sku", Value: filter.SKU})
	}
	if filter.Merchant != "" {
		q = append(q, bson.E{Key: "merchant", Value: filter.Merchant})
	}

	docs, err := getDocuments[listingDoc](ctx, s, CollectionListing, q, "fetched_at", filter.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Listing{
			ID: d.ID.Hex(),
			ListingResult: models.ListingResult{
				SKU:          d.SKU,
				Title:        d.Title,
				ImageURL:     d.ImageURL,
				URL:          d.URL,
				Merchant:     models.Merchant(d.Merchant),
				Price:        d.Price,
				Currency:     d.Currency,
				Rating:       d.Rating,
				TotalReviews: d.TotalReviews,
				Availability: d.Availability,
			},
			FetchedAt: d.FetchedAt,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) FindPriceHistory(ctx context.Context, filter HistoryFilter) ([]models.PriceHistory, error) {
	q := bson.D{
		{Key: "merchant", Value: filter.Merchant},
		{Key: "sku", Value: filter.SKU},
	}
	docs, err := getDocuments[priceHistoryDoc](ctx, s, CollectionPriceHistory, q, "timestamp", filter.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.PriceHistory, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PriceHistory{
			ID:        d.ID.Hex(),
			SKU:       d.SKU,
			Merchant:  models.Merchant(d.Merchant),
			Price:     d.Price,
			Currency:  d.Currency,
			Timestamp: d.Timestamp,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) FindFavorites(ctx context.Context, userID string, limit int) ([]models.Favorite, error) {
	q := bson.D{{Key: "user_id", Value: userID}}
	docs, err := getDocuments[favoriteDoc](ctx, s, CollectionFavorite, q, "created_at", limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.Favorite, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Favorite{
			ID:        d.ID.Hex(),
			UserID:    d.UserID,
			SKU:       d.SKU,
			Title:     d.Title,
			ImageURL:  d.ImageURL,
			URL:       d.URL,
			Merchant:  models.Merchant(d.Merchant),
			Price:     models.Float64Ptr(d.Price),
			Currency:  d.Currency,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) RecentSearchQueries(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	docs, err := getDocuments[searchQueryDoc](ctx, s, CollectionSearchQuery, bson.D{}, "created_at", limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.SearchQuery, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.SearchQuery{
			ID:        d.ID.Hex(),
			Query:     d.Query,
			UserID:    d.UserID,
			Providers: d.Providers,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (s *MongoStore) DeleteFavorite(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrInvalidID
	}

	coll, err := s.collection(ctx, CollectionFavorite)
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return 0, classifyMongo(err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Name() string { return s.name }

func (s *MongoStore) Ping(ctx context.Context) error {
	database, err := s.database(ctx)
	if err != nil {
		return err
	}
	if err := database.Client().Ping(ctx, readpref.Primary()); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *MongoStore) Collections(ctx context.Context) ([]string, error) {
	database, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	names, err := database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, classifyMongo(err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.mdb = nil
	return err
}

func classifyMongo(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable(err)
	}
	return err
}
