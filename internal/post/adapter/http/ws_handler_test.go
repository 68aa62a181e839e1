package http_test

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	posthttp "devconnector/internal/post/adapter/http"
	"devconnector/internal/post/adapter/realtime"
	"devconnector/internal/post/domain/model"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/eventbus"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func startWebSocketServer(t *testing.T, uc *mockPostUsecase, hub *realtime.Hub) string {
	t.Helper()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          apperrors.FiberErrorHandler(nil),
	})
	posthttp.NewWebSocketHandler(uc, hub, nil).RegisterRoutes(app, fakeProtect)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})
	return fmt.Sprintf("127.0.0.1:%d", ln.Addr().(*net.TCPAddr).Port)
}

func TestWebSocketHandler_StreamsActivity(t *testing.T) {
	postID := primitive.NewObjectID()
	uc := &mockPostUsecase{}
	uc.On("Get", mock.Anything, postID.Hex()).Return(model.NewPost(primitive.NewObjectID(), "hello", "A", ""), nil)
	hub := realtime.NewHub(4, nil)
	addr := startWebSocketServer(t, uc, hub)

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	url := fmt.Sprintf("ws://%s/ws/posts/%s/activity?token=u1", addr, postID.Hex())
	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg posthttp.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "subscribed", msg.Type)
	assert.Equal(t, 1, hub.SubscriberCount(postID.Hex()))

	activity := model.NewActivity(eventbus.EventTypePostLiked, postID.Hex(), "u2")
	assert.Equal(t, 1, hub.Broadcast(activity))

	var frame struct {
		Type string         `json:"type"`
		Data model.Activity `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "activity", frame.Type)
	assert.Equal(t, activity.ID, frame.Data.ID)
	assert.Equal(t, eventbus.EventTypePostLiked, frame.Data.Type)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return hub.SubscriberCount(postID.Hex()) == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWebSocketHandler_Rejections(t *testing.T) {
	uc := &mockPostUsecase{}
	uc.On("Get", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("Post"))
	addr := startWebSocketServer(t, uc, realtime.NewHub(4, nil))
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	_, resp, err := dialer.Dial(fmt.Sprintf("ws://%s/ws/posts/missing/activity", addr), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dialer.Dial(fmt.Sprintf("ws://%s/ws/posts/missing/activity?token=u1", addr), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	plain, err := http.Get(fmt.Sprintf("http://%s/ws/posts/missing/activity?token=u1", addr))
	require.NoError(t, err)
	defer plain.Body.Close()
	assert.Equal(t, http.StatusUpgradeRequired, plain.StatusCode)
}
