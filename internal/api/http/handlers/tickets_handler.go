package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/dto"
	"github.com/AbhignaKuchukulla/Issueflow/internal/auth"
	"github.com/AbhignaKuchukulla/Issueflow/internal/query"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	res := h.service.Query(c.UserContext(), query.FromMap(c.Queries()))
	return c.JSON(dto.TicketPage{Total: res.Total, Page: res.Page, PageSize: res.PageSize, Data: res.Data})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	input, user, err := dto.DecodeTicketInput(obj)
	if err != nil {
		return err
	}
	ticket, err := h.service.Create(c.UserContext(), input, actor(c, user))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// ReplaceTicket PUT /api/tickets/:id.
func (h *TicketsHandler) ReplaceTicket(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	input, user, err := dto.DecodeTicketInput(obj)
	if err != nil {
		if _, getErr := h.service.Get(c.UserContext(), c.Params("id")); getErr != nil {
			return getErr
		}
		return err
	}
	ticket, err := h.service.Replace(c.UserContext(), c.Params("id"), input, actor(c, user))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// PatchTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	patch, user, err := dto.DecodeTicketPatch(obj)
	if err != nil {
		if _, getErr := h.service.Get(c.UserContext(), c.Params("id")); getErr != nil {
			return getErr
		}
		return err
	}
	ticket, err := h.service.Patch(c.UserContext(), c.Params("id"), patch, actor(c, user))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id"), actor(c, "")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /api/tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// Bulk POST /api/tickets/bulk.
func (h *TicketsHandler) Bulk(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	req, err := dto.DecodeBulkRequest(obj)
	if err != nil {
		return err
	}
	result, err := h.service.BulkApply(c.UserContext(), req.Operation, req.IDs, req.Updates, actor(c, req.User))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// actor resolves attribution: body field, then ?user=, then the signed-in user.
// An empty result lets the service apply its default.
func actor(c *fiber.Ctx, bodyUser string) string {
	if u := strings.TrimSpace(bodyUser); u != "" {
		return u
	}
	if u := strings.TrimSpace(c.Query("user")); u != "" {
		return u
	}
	return auth.UserName(c)
}
