package http

import (
	authhttp "devconnector/internal/auth/adapter/http"
	"devconnector/internal/post/usecase"
	apperrors "devconnector/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

const defaultActivityLimit = 20

// PostHTTPHandler handles HTTP requests for posts
type PostHTTPHandler struct {
	usecase usecase.PostUsecaseInterface
}

// NewPostHTTPHandler creates a new post HTTP handler
func NewPostHTTPHandler(uc usecase.PostUsecaseInterface) *PostHTTPHandler {
	return &PostHTTPHandler{usecase: uc}
}

// SetupPostRoutes mounts /api/posts. Every post route is private.
func (h *PostHTTPHandler) SetupPostRoutes(router fiber.Router, protect fiber.Handler) {
	posts := router.Group("/api/posts", protect)

	posts.Put("/like/:id", h.ToggleLike)
	posts.Post("/comment/:postId", h.AddComment)
	posts.Delete("/comment/:postId/:commentId", h.RemoveComment)

	posts.Get("/", h.List)
	posts.Post("/", h.Create)
	posts.Get("/:id/activity", h.Activity)
	posts.Get("/:id", h.Get)
	posts.Delete("/:id", h.Delete)
}

// Create handles POST /api/posts
func (h *PostHTTPHandler) Create(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	var req usecase.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	post, err := h.usecase.Create(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// List handles GET /api/posts
func (h *PostHTTPHandler) List(c *fiber.Ctx) error {
	posts, err := h.usecase.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// Get handles GET /api/posts/:id
func (h *PostHTTPHandler) Get(c *fiber.Ctx) error {
	post, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// Delete handles DELETE /api/posts/:id
func (h *PostHTTPHandler) Delete(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	if err := h.usecase.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(apperrors.MessageBody{Message: usecase.MsgPostRemoved})
}

// ToggleLike handles PUT /api/posts/like/:id
func (h *PostHTTPHandler) ToggleLike(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	likes, err := h.usecase.ToggleLike(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/comment/:postId
func (h *PostHTTPHandler) AddComment(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	var req usecase.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body")
	}
	comments, err := h.usecase.AddComment(c.UserContext(), userID, c.Params("postId"), req)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// RemoveComment handles DELETE /api/posts/comment/:postId/:commentId
func (h *PostHTTPHandler) RemoveComment(c *fiber.Ctx) error {
	userID, err := authhttp.MustUserID(c)
	if err != nil {
		return err
	}
	comments, err := h.usecase.RemoveComment(c.UserContext(), userID, c.Params("postId"), c.Params("commentId"))
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// Activity handles GET /api/posts/:id/activity?limit=
func (h *PostHTTPHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultActivityLimit)
	activities, err := h.usecase.Activity(c.UserContext(), c.Params("id"), int64(limit))
	if err != nil {
		return err
	}
	return c.JSON(activities)
}
