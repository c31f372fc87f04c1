/**
 * @description
 * Liveness, connectivity and provider status endpoints.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - github.com/redis/go-redis/v9
 */

package handlers

import (
	"context"
	"time"

	"github.com/dealwise-project/backend/internal/providers"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const maxReportedCollections = 10

type HealthHandler struct {
	Store    store.Store
	Redis    *redis.Client
	Registry *providers.Registry
	Search   *services.SearchService
	Backend  string
}

func NewHealthHandler(st store.Store, rdb *redis.Client, registry *providers.Registry, search *services.SearchService, backend string) *HealthHandler {
	return &HealthHandler{Store: st, Redis: rdb, Registry: registry, Search: search, Backend: backend}
}

// Root identifies the service
// GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"service": "DealWise Backend",
		"message": "DealWise backend running",
	})
}

// Test probes the database and Redis. It always answers 200 and reports failures in the body.
// GET /test
func (h *HealthHandler) Test(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	database := fiber.Map{"name": h.Store.Name(), "status": "connected"}
	if err := h.Store.Ping(ctx); err != nil {
		database["status"] = "error"
		database["error"] = err.Error()
	} else if collections, err := h.Store.Collections(ctx); err != nil {
		database["status"] = "error"
		database["error"] = err.Error()
	} else {
		if len(collections) > maxReportedCollections {
			collections = collections[:maxReportedCollections]
		}
		if collections == nil {
			collections = []string{}
		}
		database["collections"] = collections
	}

	redisStatus := "disabled"
	if h.Redis != nil {
		redisStatus = "connected"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}
	}

	return c.JSON(fiber.Map{
		"ok":               database["status"] == "connected",
		"backend":          h.Backend,
		"database":         database,
		"redis":            redisStatus,
		"persist_failures": h.Search.PersistFailures(),
	})
}

// Providers reports which adapters have live credentials
// GET /providers
func (h *HealthHandler) Providers(c *fiber.Ctx) error {
	out := fiber.Map{}
	for _, p := range h.Registry.All() {
		mode := providers.ModeMock
		if p.Configured() {
			mode = providers.ModeLive
		}
		out[p.Name()] = fiber.Map{"configured": p.Configured(), "mode": mode}
	}
	return c.JSON(out)
}
