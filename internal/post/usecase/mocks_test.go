package usecase

import (
	"context"
	"sync"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/domain/repository"
	"devconnector/internal/shared/eventbus"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context) ([]*model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *mockPostRepository) Save(ctx context.Context, post *model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuthorLookup struct {
	mock.Mock
}

func (m *mockAuthorLookup) Author(ctx context.Context, userID primitive.ObjectID) (*repository.Author, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Author), args.Error(1)
}

type mockActivityStore struct {
	mock.Mock
}

func (m *mockActivityStore) Append(ctx context.Context, activity model.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *mockActivityStore) Recent(ctx context.Context, postID string, limit int64) ([]model.Activity, error) {
	args := m.Called(ctx, postID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Activity), args.Error(1)
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Subscribe(eventType string, handler eventbus.Handler) {}

func (b *recordingBus) Publish(ctx context.Context, event eventbus.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) PublishAndForget(ctx context.Context, event eventbus.Event) {
	_ = b.Publish(ctx, event)
}

func (b *recordingBus) Close() {}

func (b *recordingBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type())
	}
	return out
}
