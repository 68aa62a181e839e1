package identity

import (
	"context"
	"errors"
	"testing"

	authmodel "devconnector/internal/auth/domain/model"
	authrepo "devconnector/internal/auth/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userFinderFunc func(ctx context.Context, id primitive.ObjectID) (*authmodel.User, error)

func (f userFinderFunc) FindByID(ctx context.Context, id primitive.ObjectID) (*authmodel.User, error) {
	return f(ctx, id)
}

func TestUserAuthorLookup(t *testing.T) {
	user := authmodel.NewUser("Alice", "alice@example.com", "hash", "//gravatar/a")
	lookup := NewUserAuthorLookup(userFinderFunc(func(_ context.Context, id primitive.ObjectID) (*authmodel.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, authrepo.ErrUserNotFound
	}))

	author, err := lookup.Author(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", author.Name)
	assert.Equal(t, "//gravatar/a", author.Avatar)

	_, err = lookup.Author(context.Background(), primitive.NewObjectID())
	assert.True(t, errors.Is(err, authrepo.ErrUserNotFound))
}
