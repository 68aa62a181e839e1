package http

import (
	"context"
	"time"

	"devconnector/internal/post/domain/model"
	"devconnector/internal/post/usecase"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// ActivityFeed is the live activity source a websocket attaches to.
type ActivityFeed interface {
	Subscribe(postID string) (string, <-chan model.Activity)
	Unsubscribe(postID, subscriberID string)
}

// WebSocketMessage is a frame pushed to websocket clients
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WebSocketHandler streams post activity over websockets.
type WebSocketHandler struct {
	usecase usecase.PostUsecaseInterface
	feed    ActivityFeed
	log     logger.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(uc usecase.PostUsecaseInterface, feed ActivityFeed, log logger.Logger) *WebSocketHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WebSocketHandler{
		usecase: uc,
		feed:    feed,
		log:     log.WithComponent("post_ws"),
	}
}

// RegisterRoutes mounts GET /ws/posts/:id/activity behind protect.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	router.Get("/ws/posts/:id/activity", protect, h.upgrade, websocket.New(h.stream))
}

// upgrade rejects plain HTTP requests and unknown posts before the handshake.
func (h *WebSocketHandler) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := h.usecase.Get(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.Next()
}

func (h *WebSocketHandler) stream(conn *websocket.Conn) {
	postID := conn.Params("id")
	subscriberID, events := h.feed.Subscribe(postID)
	defer h.feed.Unsubscribe(postID, subscriberID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.log.Infof("websocket %s subscribed to post %s", subscriberID, postID)
	defer h.log.Infof("websocket %s left post %s", subscriberID, postID)

	// Clients only send control frames; reading detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warnf("websocket %s read error: %v", subscriberID, err)
				}
				return
			}
		}
	}()

	if err := h.write(conn, WebSocketMessage{Type: "subscribed", Data: fiber.Map{"postId": postID}}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-events:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := h.write(conn, WebSocketMessage{Type: "activity", Data: activity}); err != nil {
				h.log.Warnf("websocket %s write failed: %v", subscriberID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg WebSocketMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
