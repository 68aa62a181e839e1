package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

const (
	streamPrefix    = "activity:post:"
	defaultMaxLen   = 1000
	MaxRecentLimit  = 100
	defaultReadSize = 20
)

// RedisActivityStore keeps per-post activity in capped Redis Streams.
type RedisActivityStore struct {
	client *redis.Client
	maxLen int64
	logger logger.Logger
}

// NewRedisActivityStore creates a store whose streams are trimmed to about maxLen entries.
func NewRedisActivityStore(client *redis.Client, maxLen int64, log logger.Logger) *RedisActivityStore {
	if maxLen <= 0 {
		maxLen = defaultMaxLen
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedisActivityStore{
		client: client,
		maxLen: maxLen,
		logger: log.WithComponent("activity_store"),
	}
}

// StreamKey returns the stream holding postID's activity.
func StreamKey(postID string) string {
	return streamPrefix + postID
}

// Append adds activity to its post's stream.
func (s *RedisActivityStore) Append(ctx context.Context, activity model.Activity) error {
	stream := StreamKey(activity.PostID)
	_, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":        activity.ID,
			"type":      activity.Type,
			"postId":    activity.PostID,
			"userId":    activity.UserID,
			"commentId": activity.CommentID,
			"at":        activity.At.UnixNano(),
		},
	}).Result()
	if err != nil {
		s.logger.Errorf("failed to append activity %s to %s: %v", activity.Type, stream, err)
		return err
	}

	s.logger.Debugf("stored activity %s on %s", activity.Type, stream)
	return nil
}

// Recent returns up to limit activities for postID, newest first.
func (s *RedisActivityStore) Recent(ctx context.Context, postID string, limit int64) ([]model.Activity, error) {
	if limit <= 0 {
		limit = defaultReadSize
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	messages, err := s.client.XRevRangeN(ctx, StreamKey(postID), "+", "-", limit).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.Activity{}, nil
		}
		return nil, err
	}

	activities := make([]model.Activity, 0, len(messages))
	for _, msg := range messages {
		activity, err := parseActivity(msg)
		if err != nil {
			s.logger.Warnf("skipping malformed activity %s: %v", msg.ID, err)
			continue
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func parseActivity(msg redis.XMessage) (model.Activity, error) {
	str := func(key string) string {
		if v, ok := msg.Values[key].(string); ok {
			return v
		}
		return ""
	}

	activity := model.Activity{
		ID:        str("id"),
		Type:      str("type"),
		PostID:    str("postId"),
		UserID:    str("userId"),
		CommentID: str("commentId"),
	}
	if activity.Type == "" || activity.PostID == "" {
		return model.Activity{}, fmt.Errorf("missing type or post id")
	}

	nanos, err := strconv.ParseInt(str("at"), 10, 64)
	if err != nil {
		return model.Activity{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	activity.At = time.Unix(0, nanos).UTC()
	return activity, nil
}
