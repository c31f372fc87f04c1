/**
 * @description
 * Listing and price history API Handlers.
 */

package handlers

import (
	"errors"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Service *services.ListingService
}

func NewListingHandler(service *services.ListingService) *ListingHandler {
	return &ListingHandler{Service: service}
}

// GetListings returns stored listings newest first
// GET /listings?sku=AMZ-1&merchant=amazon&limit=50
func (h *ListingHandler) GetListings(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	listings, err := h.Service.Listings(c.Context(), c.Query("sku"), c.Query("merchant"), limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch listings")
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return c.JSON(listings)
}

// GetHistory returns price observations for a merchant's sku newest first
// GET /history/:merchant/:sku
func (h *ListingHandler) GetHistory(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	history, err := h.Service.History(c.Context(), c.Params("merchant"), c.Params("sku"), limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch price history")
	}
	if history == nil {
		history = []models.PriceHistory{}
	}
	return c.JSON(history)
}

// GetLatestPrice returns the newest known price for a merchant's sku
// GET /history/:merchant/:sku/latest
func (h *ListingHandler) GetLatestPrice(c *fiber.Ctx) error {
	latest, err := h.Service.LatestPrice(c.Context(), c.Params("merchant"), c.Params("sku"))
	if err != nil {
		if errors.Is(err, services.ErrPriceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return respondError(c, err, "Failed to fetch latest price")
	}
	return c.JSON(latest)
}
