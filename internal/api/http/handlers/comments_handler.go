package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/dto"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// CommentsHandler exposes ticket discussion endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// List GET /api/tickets/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// Add POST /api/tickets/:id/comments.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	obj, err := dto.ParseObject(c.Body())
	if err != nil {
		return err
	}
	req, err := dto.DecodeCommentRequest(obj)
	if err != nil {
		return err
	}
	comment, err := h.comments.Add(c.UserContext(), c.Params("id"), req.Text, actor(c, req.Author))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(comment)
}

// Delete DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.comments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
