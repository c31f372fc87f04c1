package services

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const TrendingKey = "search:trending"

// TrendingQuery is a normalized query and how often it was searched
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// TrendingService counts searches in a Redis sorted set
type TrendingService struct {
	redis *redis.Client
}

func NewTrendingService(rdb *redis.Client) *TrendingService {
	return &TrendingService{redis: rdb}
}

func (t *TrendingService) Enabled() bool {
	return t != nil && t.redis != nil
}

// Record bumps the counter for query
func (t *TrendingService) Record(ctx context.Context, query string) error {
	if !t.Enabled() {
		return nil
	}
	q := NormalizeQuery(query)
	if q == "" {
		return nil
	}
	return t.redis.ZIncrBy(ctx, TrendingKey, 1, q).Err()
}

// Top returns the n most searched queries, most popular first
func (t *TrendingService) Top(ctx context.Context, n int) ([]TrendingQuery, error) {
	if !t.Enabled() || n <= 0 {
		return []TrendingQuery{}, nil
	}

	entries, err := t.redis.ZRevRangeWithScores(ctx, TrendingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]TrendingQuery, 0, len(entries))
	for _, e := range entries {
		member, ok := e.Member.(string)
		if !ok {
			continue
		}
		out = append(out, TrendingQuery{Query: member, Count: int64(e.Score)})
	}
	return out, nil
}

// NormalizeQuery lowercases and collapses whitespace
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
