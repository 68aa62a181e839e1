package repository

import (
	"context"
	"errors"

	"devconnector/internal/auth/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email is already taken")
	ErrPasswordTooLong = errors.New("password exceeds the hashable length")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// UserRepository persists user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AvatarResolver derives an avatar URL from an email address.
type AvatarResolver interface {
	AvatarURL(email string) string
}
