package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/apperr"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, apperr.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied"})
	case errors.Is(err, models.ErrItemTitleRequired),
		errors.Is(err, models.ErrItemPriceInvalid),
		errors.Is(err, models.ErrItemBadCategory),
		errors.Is(err, models.ErrItemSellerRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
