package main

import (
	"context"
	"log"
	"os"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/db"
	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/redis/go-redis/v9"
)

// One manual refresh pass. Queries given as arguments are refreshed as-is,
// otherwise the current top queries are used.
func main() {
	log.Println("🚀 Starting manual price refresh...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer func() { _ = st.Close(ctx) }()

	redisClient, err := db.ConnectRedis(ctx, cfg)
	if err != nil || redisClient == nil {
		if err != nil {
			log.Printf("redis unavailable, using in-memory redis: %v", err)
		}
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("failed to start in-memory redis: %v", err)
		}
		defer mr.Close()
		redisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	defer redisClient.Close()

	trending := services.NewTrendingService(redisClient)
	search := services.NewSearchService(st, providers.NewRegistry(cfg.Providers), services.NewPriceEvents(redisClient), trending, nil)
	refresh := services.NewRefreshService(search, trending, st)

	var fetched int
	if queries := os.Args[1:]; len(queries) > 0 {
		fetched = refresh.Refresh(ctx, queries, cfg.Refresh.Limit)
	} else {
		fetched, err = refresh.RunOnce(ctx, cfg.Refresh.TopQueries, cfg.Refresh.Limit)
		if err != nil {
			log.Fatalf("refresh failed: %v", err)
		}
	}

	if failures := search.PersistFailures(); failures > 0 {
		log.Printf("⚠️ %d records failed to persist", failures)
	}
	log.Printf("✅ Manual refresh completed: %d listings fetched.", fetched)
}
