package handlers

import (
	"errors"
	"strconv"

	"github.com/dealwise-project/backend/internal/models"
	"github.com/dealwise-project/backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

var errBadLimit = errors.New("limit must be a non-negative integer")

// respondError maps service and store errors onto HTTP statuses
func respondError(c *fiber.Ctx, err error, message string) error {
	switch {
	case models.IsValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   message,
			"details": models.ValidationDetails(err),
		})
	case errors.Is(err, store.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// queryLimit reads the limit query parameter. Absent means 0 and the service default applies.
func queryLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadLimit
	}
	return n, nil
}
