package mongodb

import (
	"context"
	"errors"
	"fmt"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostsCollection is the collection holding posts.
const PostsCollection = "posts"

// MongoPostRepository implements repository.PostRepository using MongoDB
type MongoPostRepository struct {
	posts *mongo.Collection
}

// NewMongoPostRepository creates the repository and its indexes.
func NewMongoPostRepository(ctx context.Context, db *mongo.Database) (*MongoPostRepository, error) {
	repo := &MongoPostRepository{posts: db.Collection(PostsCollection)}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}
	if _, err := repo.posts.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create post indexes: %w", err)
	}
	return repo, nil
}

// Create inserts a new post.
func (r *MongoPostRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.Normalize()
	_, err := r.posts.InsertOne(ctx, post)
	return err
}

// FindByID loads a post by identifier.
func (r *MongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}
	post.Normalize()
	return &post, nil
}

// List returns all posts, newest first.
func (r *MongoPostRepository) List(ctx context.Context) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]*model.Post, 0)
	for cursor.Next(ctx) {
		var post model.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		post.Normalize()
		posts = append(posts, &post)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Save replaces the whole post document. Concurrent saves are last-write-wins.
func (r *MongoPostRepository) Save(ctx context.Context, post *model.Post) error {
	post.Normalize()
	result, err := r.posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

// Delete removes a post.
func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

// DeleteByUser removes every post authored by userID and returns how many were removed.
func (r *MongoPostRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	result, err := r.posts.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
