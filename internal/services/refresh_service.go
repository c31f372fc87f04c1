package services

import (
	"context"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/store"
)

// RefreshService re-runs popular searches to extend price history
type RefreshService struct {
	search   *SearchService
	trending *TrendingService
	store    store.Store
}

func NewRefreshService(search *SearchService, trending *TrendingService, st store.Store) *RefreshService {
	return &RefreshService{search: search, trending: trending, store: st}
}

// TopQueries picks up to n queries: trending ones when Redis is available,
// otherwise the most recent distinct stored searches.
func (s *RefreshService) TopQueries(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	if s.trending.Enabled() {
		top, err := s.trending.Top(ctx, n)
		if err == nil && len(top) > 0 {
			out := make([]string, 0, len(top))
			for _, t := range top {
				out = append(out, t.Query)
			}
			return out, nil
		}
		if err != nil {
			logger.Warn("RefreshService: trending lookup failed, using recent searches: %v", err)
		}
	}

	recent, err := s.store.RecentSearchQueries(ctx, n*10)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]string, 0, n)
	for _, q := range recent {
		norm := NormalizeQuery(q.Query)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Refresh searches every query across all providers and returns how many listings were fetched
func (s *RefreshService) Refresh(ctx context.Context, queries []string, limit int) int {
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}
	total := 0
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		res, err := s.search.Search(ctx, SearchParams{Query: q, Limit: limit, Refresh: true})
		if err != nil {
			logger.Error("RefreshService: refresh of %q failed: %v", q, err)
			continue
		}
		total += len(res.Results)
	}
	logger.Info("RefreshService: refreshed %d queries, %d listings", len(queries), total)
	return total
}

// RunOnce refreshes the current top n queries
func (s *RefreshService) RunOnce(ctx context.Context, n, limit int) (int, error) {
	queries, err := s.TopQueries(ctx, n)
	if err != nil {
		return 0, err
	}
	if len(queries) == 0 {
		logger.Info("RefreshService: no queries to refresh")
		return 0, nil
	}
	return s.Refresh(ctx, queries, limit), nil
}
