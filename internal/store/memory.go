package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ensure MemoryStore implements the interface.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store used for demos and tests.
// Identifiers are ObjectID hex strings, matching the MongoDB backend.
type MemoryStore struct {
	name  string
	clock clock.Clock

	mu        sync.RWMutex
	listings  []models.Listing
	history   []models.PriceHistory
	favorites []models.Favorite
	queries   []models.SearchQuery
}

// NewMemoryStore creates an empty store. A nil clock uses the system clock.
func NewMemoryStore(name string, clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryStore{name: name, clock: clk}
}

func (s *MemoryStore) CreateListing(_ context.Context, listing *models.Listing) (string, error) {
	if err := listing.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *listing
	rec.ID = primitive.NewObjectID().Hex()
	rec.CreatedAt = s.clock.Now()
	s.listings = append(s.listings, rec)
	return rec.ID, nil
}

func (s *MemoryStore) CreatePriceHistory(_ context.Context, entry *models.PriceHistory) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *entry
	rec.ID = primitive.NewObjectID().Hex()
	rec.CreatedAt = s.clock.Now()
	s.history = append(s.history, rec)
	return rec.ID, nil
}

func (s *MemoryStore) CreateSearchQuery(_ context.Context, query *models.SearchQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *query
	rec.ID = primitive.NewObjectID().Hex()
	rec.Providers = append([]string(nil), query.Providers...)
	rec.CreatedAt = s.clock.Now()
	s.queries = append(s.queries, rec)
	return rec.ID, nil
}

func (s *MemoryStore) CreateFavorite(_ context.Context, fav *models.Favorite) (string, error) {
	if err := fav.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *fav
	rec.Price = models.Float64Ptr(*fav.Price)
	rec.ID = primitive.NewObjectID().Hex()
	rec.CreatedAt = s.clock.Now()
	s.favorites = append(s.favorites, rec)
	return rec.ID, nil
}

func (s *MemoryStore) FindListings(_ context.Context, filter ListingFilter) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, 0)
	for i := len(s.listings) - 1; i >= 0; i-- {
		l := s.listings[i]
		if filter.SKU != "" && l.SKU != filter.SKU {
			continue
		}
		if filter.Merchant != "" && string(l.Merchant) != filter.Merchant {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FetchedAt.After(out[j].FetchedAt) })
	return capped(out, filter.Limit), nil
}

func (s *MemoryStore) FindPriceHistory(_ context.Context, filter HistoryFilter) ([]models.PriceHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PriceHistory, 0)
	for i := len(s.history) - 1; i >= 0; i-- {
		h := s.history[i]
		if h.SKU == filter.SKU && string(h.Merchant) == filter.Merchant {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return capped(out, filter.Limit), nil
}

func (s *MemoryStore) FindFavorites(_ context.Context, userID string, limit int) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Favorite, 0)
	for i := len(s.favorites) - 1; i >= 0; i-- {
		if s.favorites[i].UserID == userID {
			out = append(out, s.favorites[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt) })
	return capped(out, limit), nil
}

func (s *MemoryStore) RecentSearchQueries(_ context.Context, limit int) ([]models.SearchQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SearchQuery, 0, len(s.queries))
	for i := len(s.queries) - 1; i >= 0; i-- {
		out = append(out, s.queries[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt) })
	return capped(out, limit), nil
}

func (s *MemoryStore) DeleteFavorite(_ context.Context, id string) (int64, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return 0, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.favorites {
		if f.ID == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) Name() string { return s.name }

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Collections(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	if len(s.favorites) > 0 {
		names = append(names, CollectionFavorite)
	}
	if len(s.listings) > 0 {
		names = append(names, CollectionListing)
	}
	if len(s.history) > 0 {
		names = append(names, CollectionPriceHistory)
	}
	if len(s.queries) > 0 {
		names = append(names, CollectionSearchQuery)
	}
	return names, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func newer(a, b time.Time) bool { return a.After(b) }

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
