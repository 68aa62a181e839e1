package http

import (
	authhttp "devconnector/internal/auth/adapter/http"
	"devconnector/internal/profile/usecase"
	apperrors "devconnector/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// ProfileHTTPHandler handles HTTP requests for profiles
type ProfileHTTPHandler struct {
	usecase usecase.ProfileUsecaseInterface
}

// NewProfileHTTPHandler creates a new profile HTTP handler
func NewProfileHTTPHandler(uc usecase.ProfileUsecaseInterface) *ProfileHTTPHandler {
	return &ProfileHTTPHandler{usecase: uc}
}

// SetupProfileRoutes mounts /api/profile.
func (h *ProfileHTTPHandler) SetupProfileRoutes(router fiber.Router, protect fiber.Handler) {
	profiles := router.Group("/api/profile")

	profiles.Get("/", h.List)
	profiles.Get("/user/:id", h.GetByUser)

	profiles.Get("/me", protect, h.GetMine)
	profiles.Post("/", protect, h.Upsert)
	profiles.Delete("/", protect, h.DeleteAccount)
	profiles.Put("/experience", protect, h.AddExperience)
	profiles.Delete("/experience/:exp_id", protect, h.RemoveExperience)
	profiles.Put("/education", protect, h.AddEducation)
	profiles.Delete("/education/:edu_id", protect, h.RemoveEducation)
}

// GetMine handles GET /api/profile/me
func (h *ProfileHTTPHandler) GetMine(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.usecase.GetMine(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// Upsert handles POST /api/profile
func (h *ProfileHTTPHandler) Upsert(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	var req usecase.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	profile, err := h.usecase.Upsert(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// List handles GET /api/profile
func (h *ProfileHTTPHandler) List(c *fiber.Ctx) error {
	profiles, err := h.usecase.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(profiles)
}

// GetByUser handles GET /api/profile/user/:id
func (h *ProfileHTTPHandler) GetByUser(c *fiber.Ctx) error {
	profile, err := h.usecase.GetByUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
func (h *ProfileHTTPHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	if err := h.usecase.DeleteAccount(c.UserContext(), userID); err != nil {
		return err
	}
	return c.JSON(apperrors.MessageBody{Message: usecase.MsgUserDeleted})
}

// AddExperience handles PUT /api/profile/experience
func (h *ProfileHTTPHandler) AddExperience(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	var req usecase.ExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	profile, err := h.usecase.AddExperience(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
func (h *ProfileHTTPHandler) RemoveExperience(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.usecase.RemoveExperience(c.UserContext(), userID, c.Params("exp_id"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
func (h *ProfileHTTPHandler) AddEducation(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	var req usecase.EducationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	profile, err := h.usecase.AddEducation(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
func (h *ProfileHTTPHandler) RemoveEducation(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.usecase.RemoveEducation(c.UserContext(), userID, c.Params("edu_id"))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
