/**
 * @description
 * Search orchestration.
 * Fans a query out to the selected provider adapters, persists each result as a
 * Listing plus a PriceHistory record, and logs the request for analytics.
 * Persistence is best-effort: failures are logged and counted but never change
 * the response.
 *
 * @dependencies
 * - backend/internal/providers
 * - backend/internal/store
 * - golang.org/x/sync/errgroup
 */

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/pkg/clock"
	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/store"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50
	// PersistTimeout bounds all best-effort writes of one search
	PersistTimeout = 3 * time.Second
)

var (
	ErrQueryRequired = errors.New("query is required")
	ErrInvalidLimit  = fmt.Errorf("limit must be an integer between 0 and %d", MaxSearchLimit)
)

// SearchParams are the inputs of one search request
type SearchParams struct {
	Query     string
	Limit     int
	Providers string // comma-separated; empty selects all
	UserID    string
	// Refresh marks background re-fetches, which skip analytics and trending
	Refresh bool
}

// SearchResult is the aggregated response
type SearchResult struct {
	Query     string                 `json:"query"`
	Providers []string               `json:"providers"`
	Results   []models.ListingResult `json:"results"`
}

type SearchService struct {
	store    store.Store
	registry *providers.Registry
	events   *PriceEvents
	trending *TrendingService
	clock    clock.Clock

	persistTimeout  time.Duration
	persistFailures atomic.Int64
}

func NewSearchService(st store.Store, registry *providers.Registry, events *PriceEvents, trending *TrendingService, clk clock.Clock) *SearchService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &SearchService{
		store:    st,
		registry: registry,
		events:   events,
		trending: trending,
		clock:    clk,

		persistTimeout: PersistTimeout,
	}
}

// Search runs the query against the selected providers.
// Only input validation errors are returned.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, ErrQueryRequired
	}
	if params.Limit < 0 || params.Limit > MaxSearchLimit {
		return nil, ErrInvalidLimit
	}

	selected := s.registry.Select(params.Providers)
	names := providers.Names(selected)
	results := s.fetchAll(ctx, selected, params.Query, params.Limit)

	// A slow or unreachable database must not hold the response
	persistCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()

	now := s.clock.Now()
	for _, r := range results {
		s.persistResult(persistCtx, r, now)
	}

	if !params.Refresh {
		s.recordQuery(persistCtx, params, names)
	}

	return &SearchResult{
		Query:     params.Query,
		Providers: names,
		Results:   results,
	}, nil
}

// PersistFailures is the number of best-effort writes that failed since start
func (s *SearchService) PersistFailures() int64 {
	return s.persistFailures.Load()
}

// fetchAll queries adapters concurrently and concatenates in selection order
func (s *SearchService) fetchAll(ctx context.Context, selected []providers.Provider, query string, limit int) []models.ListingResult {
	batches := make([][]models.ListingResult, len(selected))

	var g errgroup.Group
	for i, p := range selected {
		i, p := i, p
		g.Go(func() error {
			res, err := p.Fetch(ctx, query, limit)
			if err != nil {
				logger.Error("SearchService: provider %s failed for %q: %v", p.Name(), query, err)
				return nil
			}
			batches[i] = res
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.ListingResult, 0)
	for _, batch := range batches {
		results = append(results, batch...)
	}
	return results
}

func (s *SearchService) persistResult(ctx context.Context, r models.ListingResult, now time.Time) {
	if _, err := s.store.CreateListing(ctx, r.ToListing(now)); err != nil {
		s.persistFailed("listing", r, err)
	}

	entry := r.ToPriceHistory(now)
	if _, err := s.store.CreatePriceHistory(ctx, entry); err != nil {
		s.persistFailed("pricehistory", r, err)
		return
	}

	if err := s.events.Publish(ctx, entry); err != nil {
		logger.Error("SearchService: failed to publish price for %s/%s: %v", r.Merchant, r.SKU, err)
	}
}

func (s *SearchService) recordQuery(ctx context.Context, params SearchParams, names []string) {
	record := &models.SearchQuery{Query: params.Query, Providers: names}
	if params.UserID != "" {
		userID := params.UserID
		record.UserID = &userID
	}
	if _, err := s.store.CreateSearchQuery(ctx, record); err != nil {
		s.persistFailures.Add(1)
		logger.Error("SearchService: failed to store search query %q: %v", params.Query, err)
	}

	if err := s.trending.Record(ctx, params.Query); err != nil {
		logger.Error("SearchService: failed to record trending query %q: %v", params.Query, err)
	}
}

func (s *SearchService) persistFailed(collection string, r models.ListingResult, err error) {
	s.persistFailures.Add(1)
	logger.Error("SearchService: failed to store %s for %s/%s: %v", collection, r.Merchant, r.SKU, err)
}
