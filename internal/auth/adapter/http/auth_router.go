package http

import (
	"devconnector/internal/auth/usecase"
	apperrors "devconnector/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface) *AuthHTTPHandler {
	return &AuthHTTPHandler{usecase: uc}
}

// SetupAuthRoutesWithMiddleware mounts /api/users and /api/auth.
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	api := router.Group("/api")

	api.Post("/users", h.Register)
	api.Post("/auth", h.Login)
	api.Get("/auth", middleware.Protect(), h.GetCurrentUser)
}

// Register handles POST /api/users
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}

	response, err := h.usecase.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// Login handles POST /api/auth
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}

	response, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetCurrentUser handles GET /api/auth
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := MustUserID(c)
	if err != nil {
		return err
	}

	user, err := h.usecase.GetCurrentUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
