package repository

import (
	"context"
	"errors"

	"devconnector/internal/post/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPostNotFound = errors.New("post not found")

// PostRepository persists posts with their embedded likes and comments.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Save(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// ActivityStore keeps a capped, per-post history of activity.
type ActivityStore interface {
	Append(ctx context.Context, activity model.Activity) error
	Recent(ctx context.Context, postID string, limit int64) ([]model.Activity, error)
}

// Author is the denormalized identity copied into posts and comments.
type Author struct {
	Name   string
	Avatar string
}

// AuthorLookup resolves a user's display name and avatar.
type AuthorLookup interface {
	Author(ctx context.Context, userID primitive.ObjectID) (*Author, error)
}
