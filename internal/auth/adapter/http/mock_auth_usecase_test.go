package http_test

import (
	"context"

	"devconnector/internal/auth/domain/model"
	"devconnector/internal/auth/domain/repository"
	"devconnector/internal/auth/usecase"

	"github.com/stretchr/testify/mock"
)

// mockAuthUsecase is a shared mock type for the AuthUsecaseInterface
type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) Register(ctx context.Context, req usecase.RegisterRequest) (*usecase.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResponse), args.Error(1)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResponse), args.Error(1)
}

func (m *mockAuthUsecase) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

var _ usecase.AuthUsecaseInterface = (*mockAuthUsecase)(nil)
