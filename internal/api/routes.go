/**
 * @description
 * API Route definitions.
 * Builds the Fiber app, wires services to handlers and assigns routes.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/services
 * - backend/internal/providers
 *
 * @notes
 * - Redis is optional: without it trending is empty, latest prices come from the store
 *   and /stream/prices answers 503.
 */

package api

import (
	"context"

	"github.com/dealwise-project/backend/internal/api/handlers"
	"github.com/dealwise-project/backend/internal/config"
	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// NewApp creates the Fiber app with global middleware
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "DealWise Backend",
		CaseSensitive: true,
	})

	app.Use(recover.New())
	if cfg.Server.Env != "test" {
		app.Use(logger.New())
	}
	// Fully open CORS. Empty AllowHeaders echoes whatever the preflight asks for.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
	}))

	return app
}

// SetupRoutes configures all API routes.
// ctx bounds the lifetime of the price stream subscription.
func SetupRoutes(ctx context.Context, app *fiber.App, st store.Store, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Services
	registry := providers.NewRegistry(cfg.Providers)
	events := services.NewPriceEvents(rdb)
	trending := services.NewTrendingService(rdb)
	searchService := services.NewSearchService(st, registry, events, trending, nil)
	listingService := services.NewListingService(st, events)
	favoriteService := services.NewFavoriteService(st)

	var hub *services.PriceStreamHub
	if rdb != nil {
		hub = services.NewPriceStreamHub(ctx, rdb, services.PriceUpdateChannel)
	}

	// 2. Initialize Handlers
	healthHandler := handlers.NewHealthHandler(st, rdb, registry, searchService, cfg.DB.Backend)
	searchHandler := handlers.NewSearchHandler(searchService, trending)
	listingHandler := handlers.NewListingHandler(listingService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	streamHandler := handlers.NewStreamHandler(hub)

	// 3. Define Routes
	app.Get("/", healthHandler.Root)
	app.Get("/test", healthHandler.Test)
	app.Get("/providers", healthHandler.Providers)

	app.Get("/search", searchHandler.Search)
	app.Get("/search/trending", searchHandler.Trending)

	app.Get("/listings", listingHandler.GetListings)
	app.Get("/history/:merchant/:sku", listingHandler.GetHistory)
	app.Get("/history/:merchant/:sku/latest", listingHandler.GetLatestPrice)

	app.Post("/favorites", favoriteHandler.AddFavorite)
	app.Get("/favorites", favoriteHandler.ListFavorites)
	app.Delete("/favorites/:fav_id", favoriteHandler.RemoveFavorite)

	app.Get("/stream/prices", streamHandler.StreamPrices)
}
