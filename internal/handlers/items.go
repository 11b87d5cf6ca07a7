package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/marketplace"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/middleware"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

type ItemHandler struct {
	svc *marketplace.Service
}

func NewItemHandler(svc *marketplace.Service) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// Browse lists available items, optionally filtered by ?category= or
// matched against ?search=.
func (h *ItemHandler) Browse(c *fiber.Ctx) error {
	items, err := h.svc.Browse(c.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	it, err := h.svc.GetItem(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(it)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var it models.Item
	if err := c.BodyParser(&it); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	created, err := h.svc.CreateItem(c.Context(), middleware.UserID(c), &it)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var it models.Item
	if err := c.BodyParser(&it); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	updated, err := h.svc.UpdateItem(c.Context(), middleware.UserID(c), c.Params("id"), &it)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteItem(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ItemHandler) Mine(c *fiber.Ctx) error {
	items, err := h.svc.MyItems(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}
