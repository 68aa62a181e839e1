package mongodb

import (
	"context"
	"fmt"

	"devconnector/internal/profile/domain/model"
	"devconnector/internal/profile/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ProfilesCollection = "profiles"
	usersCollection    = "users"
)

// MongoProfileRepository implements repository.ProfileRepository using MongoDB
type MongoProfileRepository struct {
	profiles *mongo.Collection
}

// NewMongoProfileRepository creates the repository and ensures one profile per user.
func NewMongoProfileRepository(ctx context.Context, db *mongo.Database) (*MongoProfileRepository, error) {
	repo := &MongoProfileRepository{profiles: db.Collection(ProfilesCollection)}

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.profiles.Indexes().CreateOne(ctx, userIndex); err != nil {
		return nil, fmt.Errorf("failed to create profile user index: %w", err)
	}
	return repo, nil
}

// FindByUser returns the profile owned by userID.
func (r *MongoProfileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	profiles, err := r.aggregate(ctx, bson.D{{Key: "user", Value: userID}})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, repository.ErrProfileNotFound
	}
	return profiles[0], nil
}

// List returns every profile.
func (r *MongoProfileRepository) List(ctx context.Context) ([]*model.Profile, error) {
	return r.aggregate(ctx, bson.D{})
}

// Upsert stores profile, keyed by its owner.
func (r *MongoProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}

	doc := *profile
	doc.User = nil

	opts := options.Replace().SetUpsert(true)
	if _, err := r.profiles.ReplaceOne(ctx, bson.M{"user": profile.UserID}, doc, opts); err != nil {
		return err
	}
	return nil
}

// DeleteByUser removes the profile owned by userID.
func (r *MongoProfileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.profiles.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrProfileNotFound
	}
	return nil
}

// aggregate matches profiles and populates the owner's name and avatar.
func (r *MongoProfileRepository) aggregate(ctx context.Context, match bson.D) ([]*model.Profile, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "owner.email", Value: 0},
			{Key: "owner.password", Value: 0},
			{Key: "owner.date", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
	}

	cursor, err := r.profiles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := make([]*model.Profile, 0)
	for cursor.Next(ctx) {
		var p model.Profile
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		p.Normalize()
		profiles = append(profiles, &p)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
