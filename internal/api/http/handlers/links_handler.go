package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/dto"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// LinksHandler exposes ticket relationship endpoints.
type LinksHandler struct {
	links *service.LinkService
}

// NewLinksHandler constructs handler.
func NewLinksHandler(links *service.LinkService) *LinksHandler {
	return &LinksHandler{links: links}
}

// Link POST /api/tickets/:id/link.
func (h *LinksHandler) Link(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	req, err := dto.DecodeLinkRequest(obj)
	if err != nil {
		return err
	}
	ticket, err := h.links.Link(c.UserContext(), c.Params("id"), req.RelatedID, req.Relationship, actor(c, req.User))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// Unlink DELETE /api/tickets/:id/link/:relatedId.
func (h *LinksHandler) Unlink(c *fiber.Ctx) error {
	ticket, err := h.links.Unlink(c.UserContext(), c.Params("id"), c.Params("relatedId"), actor(c, ""))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}
