package usecase

import (
	"context"

	"devconnector/internal/profile/domain/model"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *mockProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Profile), args.Error(1)
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockProfileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockPostRemover struct {
	mock.Mock
}

func (m *mockPostRemover) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAccountRemover struct {
	mock.Mock
}

func (m *mockAccountRemover) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
