/**
 * @description
 * Main entry point for the DealWise Backend API.
 * Loads configuration, opens the store and Redis, sets up routes and serves HTTP.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: Web framework
 * - github.com/dealwise-project/backend/internal/config: Config loader
 * - github.com/dealwise-project/backend/internal/store: Storage backends
 * - github.com/dealwise-project/backend/internal/db: Redis connection
 *
 * @notes
 * - The database connects lazily on first use; an unreachable database does not block startup.
 * - Redis is optional and the API degrades without it.
 */

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealwise-project/backend/internal/api"
	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/db"
	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/store"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Storage
	st, err := store.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open store: %v", err)
	}

	// Redis (trending, latest prices, price stream)
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	redisClient, err := db.ConnectRedis(connectCtx, cfg)
	connectCancel()
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	} else if redisClient == nil {
		logger.Info("REDIS_URL not set, Redis-backed features disabled")
	}

	// 3. App and Routes
	app := api.NewApp(cfg)
	api.SetupRoutes(ctx, app, st, redisClient, cfg)

	// 4. Graceful Shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down API...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Error during shutdown: %v", err)
		}
	}()

	// 5. Start Server
	logger.Info("🚀 Starting DealWise Backend on port %s (%s store)", cfg.Server.Port, cfg.DB.Backend)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := st.Close(closeCtx); err != nil {
		logger.Error("Error closing store: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info("API exited.")
}
