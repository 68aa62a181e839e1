package middleware

import (
	"time"

	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestIDLocal is the fiber local the requestid middleware stores ids under.
const RequestIDLocal = "requestid"

// RequestContext copies the request id into the request's context.Context so
// loggers down the stack pick it up.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(RequestIDLocal).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// AccessLog logs one line per request once the handler chain has finished.
func AccessLog(log logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithComponent("http")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging it.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		entry := log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		})
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Warn("request failed")
		} else {
			entry.Debug("request handled")
		}
		return nil
	}
}
