package identity

import (
	"context"
	"fmt"

	authmodel "devconnector/internal/auth/domain/model"
	"devconnector/internal/post/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder is the part of the user store posts need.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*authmodel.User, error)
}

// UserAuthorLookup resolves post authors from the user store.
type UserAuthorLookup struct {
	users UserFinder
}

// NewUserAuthorLookup creates an AuthorLookup over users.
func NewUserAuthorLookup(users UserFinder) *UserAuthorLookup {
	return &UserAuthorLookup{users: users}
}

// Author returns the user's current name and avatar.
func (l *UserAuthorLookup) Author(ctx context.Context, userID primitive.ObjectID) (*repository.Author, error) {
	user, err := l.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup author %s: %w", userID.Hex(), err)
	}
	return &repository.Author{Name: user.Name, Avatar: user.Avatar}, nil
}
