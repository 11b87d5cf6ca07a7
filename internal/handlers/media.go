package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/media"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/middleware"
)

type MediaHandler struct {
	svc *media.Service
}

func NewMediaHandler(svc *media.Service) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// UploadImage accepts the raw image as the request body; the Content-Type
// header names the format.
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	img, err := h.svc.UploadListingImage(c.Context(), middleware.UserID(c), c.Get("Content-Type"), c.Body())
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}
