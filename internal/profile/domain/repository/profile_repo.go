package repository

import (
	"context"
	"errors"

	"devconnector/internal/profile/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists profiles. Reads return profiles with the owner populated.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
	Upsert(ctx context.Context, profile *model.Profile) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// PostRemover deletes every post authored by a user.
type PostRemover interface {
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// AccountRemover deletes a user account.
type AccountRemover interface {
	Delete(ctx context.Context, id primitive.ObjectID) error
}
