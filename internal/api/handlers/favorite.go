/**
 * @description
 * Favorites API Handlers.
 * Create, list-by-user and delete-by-id for saved listings.
 */

package handlers

import (
	"errors"
	"time"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Service *services.FavoriteService
}

func NewFavoriteHandler(service *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Service: service}
}

// AddFavorite saves a listing for a user
// POST /favorites
func (h *FavoriteHandler) AddFavorite(c *fiber.Ctx) error {
	var fav models.Favorite
	if err := c.BodyParser(&fav); err != nil {
		return badRequest(c, "Invalid request body")
	}
	// Identity and creation time are assigned by the store
	fav.ID = ""
	fav.CreatedAt = time.Time{}

	id, err := h.Service.AddFavorite(c.Context(), &fav)
	if err != nil {
		return respondError(c, err, "Failed to save favorite")
	}
	return c.JSON(fiber.Map{"ok": true, "id": id})
}

// ListFavorites returns a user's favorites newest first
// GET /favorites?user_id=u1
func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	favs, err := h.Service.ListFavorites(c.Context(), c.Query("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrUserRequired) {
			return badRequest(c, err.Error())
		}
		return respondError(c, err, "Failed to fetch favorites")
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	return c.JSON(favs)
}

// RemoveFavorite deletes a favorite. Unknown ids report zero deletions rather than an error.
// DELETE /favorites/:fav_id
func (h *FavoriteHandler) RemoveFavorite(c *fiber.Ctx) error {
	n, err := h.Service.RemoveFavorite(c.Context(), c.Params("fav_id"))
	if err != nil {
		return respondError(c, err, "Failed to delete favorite")
	}
	return c.JSON(fiber.Map{"ok": n == 1, "deleted_count": n})
}
