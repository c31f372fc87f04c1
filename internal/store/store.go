/**
 * @description
 * Data Access Layer.
 * Store is the persistence contract shared by the MongoDB, PostgreSQL and in-memory backends.
 * Every create stamps created_at server-side and returns a string identifier; every read
 * returns typed records with identifiers coerced to strings.
 *
 * @dependencies
 * - backend/internal/models
 * - backend/internal/config
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/models"
)

// Collection names shared by all backends
const (
	CollectionListing      = "listing"
	CollectionPriceHistory = "pricehistory"
	CollectionFavorite     = "favorite"
	CollectionSearchQuery  = "searchquery"
)

const (
	// ConnectTimeout bounds one lazy connection attempt
	ConnectTimeout = 5 * time.Second
	// ConnectRetryAfter is how long a failed connection attempt is remembered
	ConnectRetryAfter = 10 * time.Second
)

var (
	// ErrInvalidID is returned when an identifier is not in the backend's id form
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUnavailable wraps connectivity failures reaching the backing database
	ErrUnavailable = errors.New("database unavailable")
)

// ListingFilter selects listings by optional equality filters
type ListingFilter struct {
	SKU      string
	Merchant string
	Limit    int
}

// HistoryFilter selects the price history of one merchant's sku
type HistoryFilter struct {
	Merchant string
	SKU      string
	Limit    int
}

// Store persists listings, price history, favorites and search analytics
type Store interface {
	CreateListing(ctx context.Context, listing *models.Listing) (string, error)
	CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) (string, error)
	CreateSearchQuery(ctx context.Context, query *models.SearchQuery) (string, error)
	CreateFavorite(ctx context.Context, fav *models.Favorite) (string, error)

	// FindListings returns listings newest fetch first
	FindListings(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	// FindPriceHistory returns observations newest first
	FindPriceHistory(ctx context.Context, filter HistoryFilter) ([]models.PriceHistory, error)
	// FindFavorites returns a user's favorites newest first
	FindFavorites(ctx context.Context, userID string, limit int) ([]models.Favorite, error)
	// RecentSearchQueries returns analytics records newest first
	RecentSearchQueries(ctx context.Context, limit int) ([]models.SearchQuery, error)

	// DeleteFavorite removes a favorite and reports how many records were deleted.
	// Malformed ids yield ErrInvalidID; unknown ids yield (0, nil).
	DeleteFavorite(ctx context.Context, id string) (int64, error)

	Name() string
	Ping(ctx context.Context) error
	Collections(ctx context.Context) ([]string, error)
	Close(ctx context.Context) error
}

// Open returns the backend selected by cfg.DB.Backend.
// Network backends connect lazily on first use.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.DB.Backend {
	case config.BackendMongo:
		return NewMongoStore(cfg), nil
	case config.BackendPostgres:
		return NewPostgresStore(cfg), nil
	case config.BackendMemory:
		return NewMemoryStore(cfg.DB.Name, nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.DB.Backend)
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
