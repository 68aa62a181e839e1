package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	logger.Logger
	mu     *sync.Mutex
	fields map[string]interface{}
	lines  *[]map[string]interface{}
}

func newRecordingLogger() *recordingLogger {
	lines := []map[string]interface{}{}
	return &recordingLogger{Logger: logger.NewNopLogger(), mu: &sync.Mutex{}, lines: &lines}
}

func (l *recordingLogger) WithComponent(string) logger.Logger { return l }

func (l *recordingLogger) WithContext(context.Context) logger.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return &recordingLogger{Logger: l.Logger, mu: l.mu, fields: fields, lines: l.lines}
}

func (l *recordingLogger) record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.lines = append(*l.lines, l.fields)
}

func (l *recordingLogger) Debug(...interface{}) { l.record() }

func (l *recordingLogger) Warn(...interface{}) { l.record() }

func (l *recordingLogger) last() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return (*l.lines)[len(*l.lines)-1]
}

func TestAccessLog_RecordsFinalStatus(t *testing.T) {
	log := newRecordingLogger()
	app := fiber.New(fiber.Config{ErrorHandler: apperrors.FiberErrorHandler(nil)})
	app.Use(AccessLog(log))
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFoundError("Post")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fiber.StatusNotFound, log.last()["status"])
	assert.Equal(t, "/missing", log.last()["path"])

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.StatusOK, log.last()["status"])
}

func TestRequestContext_PropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(requestid.Config{
		Generator:  func() string { return "req-1" },
		ContextKey: RequestIDLocal,
	}))
	app.Use(RequestContext())

	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = utils.GetRequestIDFromContext(c.UserContext())
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "req-1", seen)
}
