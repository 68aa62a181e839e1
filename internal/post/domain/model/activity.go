package model

import (
	"time"

	"devconnector/internal/shared/eventbus"

	"github.com/google/uuid"
)

// Activity is one change to a post, fanned out to the activity feed and
// websocket subscribers.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CommentID string    `json:"commentId,omitempty"`
	At        time.Time `json:"at"`
}

// NewActivity stamps a new activity of eventType.
func NewActivity(eventType, postID, userID string) Activity {
	return Activity{
		ID:     uuid.NewString(),
		Type:   eventType,
		PostID: postID,
		UserID: userID,
		At:     time.Now().UTC(),
	}
}

// Event wraps the activity for the event bus.
func (a Activity) Event() eventbus.Event {
	return eventbus.NewEvent(a.Type, a, "post")
}

// ActivityFromEvent extracts the activity carried by an event bus event.
func ActivityFromEvent(event eventbus.Event) (Activity, bool) {
	switch data := event.Data().(type) {
	case Activity:
		return data, true
	case *Activity:
		if data != nil {
			return *data, true
		}
	}
	return Activity{}, false
}
