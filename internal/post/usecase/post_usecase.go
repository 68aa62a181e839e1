package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/domain/repository"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/eventbus"
	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MsgPostRemoved     = "Post removed"
	MsgCommentNotFound = "Comment does not exist"
)

// PostUsecaseInterface defines the post use cases.
type PostUsecaseInterface interface {
	Create(ctx context.Context, userID string, req CreatePostRequest) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, postID string) (*model.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	ToggleLike(ctx context.Context, userID, postID string) ([]model.Like, error)
	AddComment(ctx context.Context, userID, postID string, req CommentRequest) ([]model.Comment, error)
	RemoveComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error)
	Activity(ctx context.Context, postID string, limit int64) ([]model.Activity, error)
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// CommentRequest is the body of POST /api/posts/comment/:postId.
type CommentRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// PostUsecase implements the post logic. Every mutation follows a
// load-mutate-persist cycle on the whole post.
type PostUsecase struct {
	posts    repository.PostRepository
	authors  repository.AuthorLookup
	activity repository.ActivityStore
	bus      eventbus.EventBusInterface
	log      logger.Logger
}

// NewPostUsecase creates a PostUsecase. activity and bus may be nil.
func NewPostUsecase(
	posts repository.PostRepository,
	authors repository.AuthorLookup,
	activity repository.ActivityStore,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *PostUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &PostUsecase{
		posts:    posts,
		authors:  authors,
		activity: activity,
		bus:      bus,
		log:      log.WithComponent("post"),
	}
}

// Create writes a post with the author's current name and avatar.
func (uc *PostUsecase) Create(ctx context.Context, userID string, req CreatePostRequest) (*model.Post, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	uid, author, err := uc.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := model.NewPost(uid, req.Text, author.Name, author.Avatar)
	if err := uc.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.publish(ctx, model.NewActivity(eventbus.EventTypePostCreated, post.ID.Hex(), userID))
	return post, nil
}

// List returns all posts, newest first.
func (uc *PostUsecase) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := uc.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Get returns a post. Missing and malformed ids are both not found.
func (uc *PostUsecase) Get(ctx context.Context, postID string) (*model.Post, error) {
	id, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("Post")
	}

	post, err := uc.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperrors.NewNotFoundError("Post")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}

// Delete removes a post. Only its author may delete it.
func (uc *PostUsecase) Delete(ctx context.Context, userID, postID string) error {
	post, err := uc.Get(ctx, postID)
	if err != nil {
		return err
	}
	uid, err := requester(userID)
	if err != nil {
		return err
	}
	if !post.IsAuthor(uid) {
		return apperrors.NewAuthorizationError(apperrors.MsgNotAuthorized)
	}

	if err := uc.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperrors.NewNotFoundError("Post")
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	uc.publish(ctx, model.NewActivity(eventbus.EventTypePostDeleted, postID, userID))
	return nil
}

// ToggleLike likes or un-likes a post for the requester and returns the resulting likes.
func (uc *PostUsecase) ToggleLike(ctx context.Context, userID, postID string) ([]model.Like, error) {
	post, err := uc.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	uid, err := requester(userID)
	if err != nil {
		return nil, err
	}

	liked := post.ToggleLike(uid)
	if err := uc.save(ctx, post); err != nil {
		return nil, err
	}

	eventType := eventbus.EventTypePostUnliked
	if liked {
		eventType = eventbus.EventTypePostLiked
	}
	uc.publish(ctx, model.NewActivity(eventType, postID, userID))
	return post.Likes, nil
}

// AddComment prepends a comment by the requester and returns the resulting comments.
func (uc *PostUsecase) AddComment(ctx context.Context, userID, postID string, req CommentRequest) ([]model.Comment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	post, err := uc.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	uid, author, err := uc.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := post.AddComment(uid, req.Text, author.Name, author.Avatar)
	if err := uc.save(ctx, post); err != nil {
		return nil, err
	}

	activity := model.NewActivity(eventbus.EventTypeCommentAdded, postID, userID)
	activity.CommentID = comment.ID.Hex()
	uc.publish(ctx, activity)
	return post.Comments, nil
}

// RemoveComment deletes the requester's comment commentID and returns the resulting comments.
func (uc *PostUsecase) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error) {
	post, err := uc.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	uid, err := requester(userID)
	if err != nil {
		return nil, err
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, commentNotFound()
	}

	if _, err := post.RemoveComment(cid, uid); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			return nil, commentNotFound().WithCause(err)
		case errors.Is(err, model.ErrNotCommentAuthor):
			return nil, apperrors.NewAuthorizationError(apperrors.MsgNotAuthorized)
		default:
			return nil, err
		}
	}
	if err := uc.save(ctx, post); err != nil {
		return nil, err
	}

	activity := model.NewActivity(eventbus.EventTypeCommentRemoved, postID, userID)
	activity.CommentID = commentID
	uc.publish(ctx, activity)
	return post.Comments, nil
}

// Activity returns the recent activity of a post, newest first.
func (uc *PostUsecase) Activity(ctx context.Context, postID string, limit int64) ([]model.Activity, error) {
	if uc.activity == nil {
		return nil, apperrors.NewNotFoundError("Activity feed")
	}
	post, err := uc.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	activities, err := uc.activity.Recent(ctx, post.ID.Hex(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}
	return activities, nil
}

func (uc *PostUsecase) save(ctx context.Context, post *model.Post) error {
	if err := uc.posts.Save(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperrors.NewNotFoundError("Post")
		}
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (uc *PostUsecase) author(ctx context.Context, userID string) (primitive.ObjectID, *repository.Author, error) {
	uid, err := requester(userID)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	author, err := uc.authors.Author(ctx, uid)
	if err != nil {
		return primitive.NilObjectID, nil, fmt.Errorf("failed to load author %s: %w", userID, err)
	}
	return uid, author, nil
}

// publish hands activity to the bus without waiting. It never fails the request.
func (uc *PostUsecase) publish(ctx context.Context, activity model.Activity) {
	if uc.bus == nil {
		return
	}
	uc.bus.PublishAndForget(context.WithoutCancel(ctx), activity.Event())
}

func requester(userID string) (primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewAuthenticationError(apperrors.MsgInvalidToken)
	}
	return uid, nil
}

func commentNotFound() *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrorTypeNotFound, MsgCommentNotFound, http.StatusNotFound).
		WithCause(apperrors.ErrNotFound)
}
