package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendingTop(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	svc := NewTrendingService(rdb)

	for _, q := range []string{"phone", "Phone", "laptop", " PHONE ", "tv", "laptop"} {
		require.NoError(t, svc.Record(ctx, q))
	}
	require.NoError(t, svc.Record(ctx, "   "))

	top, err := svc.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []TrendingQuery{{Query: "phone", Count: 3}, {Query: "laptop", Count: 2}}, top)
}

func TestTrendingDisabledWithoutRedis(t *testing.T) {
	svc := NewTrendingService(nil)
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Record(context.Background(), "phone"))

	top, err := svc.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "gaming laptop", NormalizeQuery("  Gaming   LAPTOP "))
	assert.Equal(t, "", NormalizeQuery(" \t "))
}
