/**
 * @description
 * Worker Service Entry Point.
 * Periodically re-runs the most popular searches so price history keeps growing
 * between user requests.
 *
 * @dependencies
 * - backend/internal/config
 * - backend/internal/db
 * - backend/internal/store
 * - backend/internal/services
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/db"
	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/dealwise-project/backend/internal/store"
)

func main() {
	logger.Info("🔥 Starting DealWise Worker...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	if cfg.DB.Backend == config.BackendMemory {
		logger.Warn("Worker running against the memory store; refreshed prices are not shared with the API")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Connect Stores
	st, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open store: %v", err)
	}

	redisClient, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, refreshing recent searches instead of trending: %v", err)
		redisClient = nil
	}

	// 3. Initialize Services
	events := services.NewPriceEvents(redisClient)
	trending := services.NewTrendingService(redisClient)
	search := services.NewSearchService(st, providers.NewRegistry(cfg.Providers), events, trending, nil)
	refresh := services.NewRefreshService(search, trending, st)

	interval := time.Duration(cfg.Refresh.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	// 4. Refresh Loop
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runRefresh(ctx, refresh, cfg)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runRefresh(ctx, refresh, cfg)
			}
		}
	}()

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := st.Close(closeCtx); err != nil {
		logger.Error("Error closing store: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info("Worker exited.")
}

func runRefresh(ctx context.Context, refresh *services.RefreshService, cfg *config.Config) {
	logger.Info("🔄 Refreshing top %d queries...", cfg.Refresh.TopQueries)
	if _, err := refresh.RunOnce(ctx, cfg.Refresh.TopQueries, cfg.Refresh.Limit); err != nil {
		logger.Error("Refresh failed: %v", err)
	}
}
