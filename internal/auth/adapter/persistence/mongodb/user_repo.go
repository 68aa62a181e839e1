package mongodb

import (
	"context"
	"errors"
	"fmt"

	"devconnector/internal/auth/domain/model"
	"devconnector/internal/auth/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UsersCollection is the collection holding user accounts.
const UsersCollection = "users"

// MongoUserRepository implements repository.UserRepository using MongoDB
type MongoUserRepository struct {
	db              *mongo.Database
	usersCollection *mongo.Collection
}

// NewMongoUserRepository creates the repository and ensures the unique email index.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	repo := &MongoUserRepository{
		db:              db,
		usersCollection: db.Collection(UsersCollection),
	}

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.usersCollection.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, fmt.Errorf("failed to create email index: %w", err)
	}

	return repo, nil
}

// FindByEmail looks a user up by normalized email.
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

// FindByID looks a user up by identifier.
func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Create inserts a new user. A duplicate email yields repository.ErrEmailTaken.
func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = model.NormalizeEmail(user.Email)

	if _, err := r.usersCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrEmailTaken
		}
		return err
	}
	return nil
}

// Save replaces the stored user document.
func (r *MongoUserRepository) Save(ctx context.Context, user *model.User) error {
	result, err := r.usersCollection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrEmailTaken
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

// Delete removes a user by identifier.
func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.usersCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.usersCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
