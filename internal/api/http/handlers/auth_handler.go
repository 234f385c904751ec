package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/api/dto"
	"github.com/AbhignaKuchukulla/Issueflow/internal/auth"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
	apperrors "github.com/AbhignaKuchukulla/Issueflow/pkg/util/errorutil"
)

// AuthHandler exposes signup and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.UserSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	user, token, err := h.auth.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(user, token))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("email and password required")
	}
	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAuthResponse(user, token))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.NewUserResponse(principal.User))
}
