package realtime

import (
	"sync"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/shared/logger"

	"github.com/google/uuid"
)

const defaultBufferSize = 16

// Hub fans post activity out to live subscribers. Delivery is non-blocking:
// a subscriber whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan model.Activity
	bufferSize  int
	closed      bool
	log         logger.Logger
}

// NewHub creates a hub with per-subscriber buffers of bufferSize.
func NewHub(bufferSize int, log logger.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Hub{
		subscribers: make(map[string]map[string]chan model.Activity),
		bufferSize:  bufferSize,
		log:         log.WithComponent("activity_hub"),
	}
}

// Subscribe registers interest in postID and returns the subscriber id and its channel.
func (h *Hub) Subscribe(postID string) (string, <-chan model.Activity) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan model.Activity, h.bufferSize)
	if h.closed {
		close(ch)
		return id, ch
	}

	if h.subscribers[postID] == nil {
		h.subscribers[postID] = make(map[string]chan model.Activity)
	}
	h.subscribers[postID][id] = ch
	h.log.Debugf("subscriber %s joined post %s", id, postID)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(postID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[postID]
	if !ok {
		return
	}
	if ch, ok := subs[subscriberID]; ok {
		close(ch)
		delete(subs, subscriberID)
	}
	if len(subs) == 0 {
		delete(h.subscribers, postID)
	}
}

// Broadcast delivers activity to every subscriber of its post and returns how many received it.
func (h *Hub) Broadcast(activity model.Activity) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, ch := range h.subscribers[activity.PostID] {
		select {
		case ch <- activity:
			delivered++
		default:
			h.log.Warnf("dropping %s for slow subscriber %s", activity.Type, id)
		}
	}
	return delivered
}

// SubscriberCount returns the number of live subscribers for postID.
func (h *Hub) SubscriberCount(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[postID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for postID, subs := range h.subscribers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(h.subscribers, postID)
	}
	h.closed = true
}
