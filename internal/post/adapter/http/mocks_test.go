package http_test

import (
	"context"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/usecase"
	"devconnector/internal/shared/contextkeys"
	apperrors "devconnector/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
)

type mockPostUsecase struct {
	mock.Mock
}

func (m *mockPostUsecase) post(args mock.Arguments) (*model.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockPostUsecase) Create(ctx context.Context, userID string, req usecase.CreatePostRequest) (*model.Post, error) {
	return m.post(m.Called(ctx, userID, req))
}

func (m *mockPostUsecase) List(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *mockPostUsecase) Get(ctx context.Context, postID string) (*model.Post, error) {
	return m.post(m.Called(ctx, postID))
}

func (m *mockPostUsecase) Delete(ctx context.Context, userID, postID string) error {
	return m.Called(ctx, userID, postID).Error(0)
}

func (m *mockPostUsecase) ToggleLike(ctx context.Context, userID, postID string) ([]model.Like, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Like), args.Error(1)
}

func (m *mockPostUsecase) AddComment(ctx context.Context, userID, postID string, req usecase.CommentRequest) ([]model.Comment, error) {
	args := m.Called(ctx, userID, postID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *mockPostUsecase) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error) {
	args := m.Called(ctx, userID, postID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *mockPostUsecase) Activity(ctx context.Context, postID string, limit int64) ([]model.Activity, error) {
	args := m.Called(ctx, postID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

// fakeProtect authenticates every request carrying an x-auth-token header or
// ?token= query, using the value as the user id.
func fakeProtect(c *fiber.Ctx) error {
	userID := c.Get("x-auth-token")
	if userID == "" {
		userID = c.Query("token")
	}
	if userID == "" {
		return apperrors.NewAuthenticationError(apperrors.MsgNoToken)
	}
	c.Locals(string(contextkeys.UserIDKey), userID)
	return c.Next()
}
