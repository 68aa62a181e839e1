package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devconnector/internal/shared/logger"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler)
	Publish(ctx context.Context, event Event) error
	// PublishAndForget queues the event for delivery by a single dispatcher,
	// so handlers observe queued events in the order they were queued.
	PublishAndForget(ctx context.Context, event Event)
	Close()
}

// EventBus is an in-memory event bus. Publish delivers inline; PublishAndForget
// delivers through one background dispatcher goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   logger.Logger
	config   BusConfig

	queueMu sync.RWMutex
	queue   chan queuedEvent
	closed  bool
	done    chan struct{}
}

type queuedEvent struct {
	ctx   context.Context
	event Event
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	// QueueSize bounds PublishAndForget. A full queue blocks the publisher.
	QueueSize int
}

// DefaultBusConfig returns default configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{
		MaxRetries: 2,
		RetryDelay: 50 * time.Millisecond,
		QueueSize:  256,
	}
}

// NewEventBus creates a new event bus instance
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a new event bus and starts its dispatcher.
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultBusConfig().QueueSize
	}
	eb := &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log,
		config:   config,
		queue:    make(chan queuedEvent, config.QueueSize),
		done:     make(chan struct{}),
	}
	go eb.dispatch()
	return eb
}

// Subscribe adds a handler for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debugf("Subscribed handler for event type: %s", eventType)
}

// Publish runs every handler of the event's type in subscription order and
// returns the first handler error that survives its retries.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := eb.handlers[event.Type()]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	eb.logger.Debugf("Publishing event type: %s to %d handlers", event.Type(), len(handlers))
	for i, handler := range handlers {
		if err := eb.executeHandler(ctx, event, handler, i); err != nil {
			return err
		}
	}
	return nil
}

// executeHandler executes a handler with retry logic
func (eb *EventBus) executeHandler(ctx context.Context, event Event, handler Handler, handlerIndex int) error {
	var lastErr error

	for attempt := 0; attempt <= eb.config.MaxRetries; attempt++ {
		if attempt > 0 {
			eb.logger.Warnf("Retrying handler %d for event %s (attempt %d/%d)",
				handlerIndex, event.Type(), attempt+1, eb.config.MaxRetries+1)
			time.Sleep(eb.config.RetryDelay)
		}

		if err := handler(ctx, event); err != nil {
			lastErr = err
			eb.logger.Errorf("Handler %d failed for event %s: %v", handlerIndex, event.Type(), err)
			continue
		}

		if attempt > 0 {
			eb.logger.Infof("Handler %d succeeded for event %s after %d retries",
				handlerIndex, event.Type(), attempt)
		}
		return nil
	}

	return fmt.Errorf("handler failed after %d attempts: %w", eb.config.MaxRetries+1, lastErr)
}

// PublishAndForget queues an event without waiting for its handlers. Events
// queued after Close are dropped.
func (eb *EventBus) PublishAndForget(ctx context.Context, event Event) {
	eb.queueMu.RLock()
	defer eb.queueMu.RUnlock()

	if eb.closed {
		eb.logger.Warnf("Event bus closed, dropping event %s", event.Type())
		return
	}
	eb.queue <- queuedEvent{ctx: ctx, event: event}
}

func (eb *EventBus) dispatch() {
	defer close(eb.done)
	for item := range eb.queue {
		if err := eb.Publish(item.ctx, item.event); err != nil {
			eb.logger.Errorf("Failed to publish event %s: %v", item.event.Type(), err)
		}
	}
}

// Close stops accepting queued events and waits until the dispatcher has
// delivered the ones already queued. It is safe to call more than once.
func (eb *EventBus) Close() {
	eb.queueMu.Lock()
	if !eb.closed {
		eb.closed = true
		close(eb.queue)
	}
	eb.queueMu.Unlock()

	<-eb.done
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string {
	return e.eventType
}

func (e *BasicEvent) Data() interface{} {
	return e.data
}

func (e *BasicEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *BasicEvent) Source() string {
	return e.source
}

// Event types published by the post module
const (
	EventTypePostCreated    = "post.created"
	EventTypePostDeleted    = "post.deleted"
	EventTypePostLiked      = "post.liked"
	EventTypePostUnliked    = "post.unliked"
	EventTypeCommentAdded   = "post.comment_added"
	EventTypeCommentRemoved = "post.comment_removed"
)

// PostEventTypes lists every post activity event type
var PostEventTypes = []string{
	EventTypePostCreated,
	EventTypePostDeleted,
	EventTypePostLiked,
	EventTypePostUnliked,
	EventTypeCommentAdded,
	EventTypeCommentRemoved,
}
