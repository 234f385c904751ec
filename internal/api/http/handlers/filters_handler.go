package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/dto"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// FiltersHandler exposes saved filter endpoints.
type FiltersHandler struct {
	filters *service.FilterService
}

// NewFiltersHandler constructs handler.
func NewFiltersHandler(filters *service.FilterService) *FiltersHandler {
	return &FiltersHandler{filters: filters}
}

// List GET /api/filters.
func (h *FiltersHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.filters.List(c.UserContext()))
}

// Create POST /api/filters.
func (h *FiltersHandler) Create(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	req, err := dto.DecodeFilterRequest(obj)
	if err != nil {
		return err
	}
	filter, err := h.filters.Create(c.UserContext(), req.Name, req.Filters)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(filter)
}

// Delete DELETE /api/filters/:id.
func (h *FiltersHandler) Delete(c *fiber.Ctx) error {
	if err := h.filters.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
