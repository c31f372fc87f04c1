/**
 * @description
 * Search API Handlers.
 * Fans a query out to the provider adapters and exposes trending searches.
 */

package handlers

import (
	"errors"

	"github.com/dealwise-project/backend/internal/logger"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
)

type SearchHandler struct {
	Service         *services.SearchService
	TrendingService *services.TrendingService
}

func NewSearchHandler(service *services.SearchService, trending *services.TrendingService) *SearchHandler {
	return &SearchHandler{Service: service, TrendingService: trending}
}

// Search aggregates provider results for a query
// GET /search?query=phone&limit=5&providers=amazon,flipkart&user_id=u1
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	limit := services.DefaultSearchLimit
	if c.Query("limit") != "" {
		n, err := queryLimit(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		limit = n
	}

	result, err := h.Service.Search(c.Context(), services.SearchParams{
		Query:     c.Query("query"),
		Limit:     limit,
		Providers: c.Query("providers"),
		UserID:    c.Query("user_id"),
	})
	if err != nil {
		if errors.Is(err, services.ErrQueryRequired) || errors.Is(err, services.ErrInvalidLimit) {
			return badRequest(c, err.Error())
		}
		return respondError(c, err, "Search failed")
	}
	return c.JSON(result)
}

// Trending returns the most searched queries. Empty when Redis is disabled.
// GET /search/trending?limit=10
func (h *SearchHandler) Trending(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if limit == 0 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	queries, err := h.TrendingService.Top(c.Context(), limit)
	if err != nil {
		logger.Error("SearchHandler: trending lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch trending searches",
		})
	}
	if queries == nil {
		queries = []services.TrendingQuery{}
	}
	return c.JSON(fiber.Map{"queries": queries})
}
