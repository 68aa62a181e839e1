package errors

import (
	"errors"

	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler maps errors returned by handlers to HTTP responses.
// AppErrors and validation failures become their JSON shapes; fiber errors keep
// their status; anything else is logged and answered with a plain-text 500.
func FiberErrorHandler(log logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := As(err); ok {
			if appErr.HTTPCode >= fiber.StatusInternalServerError {
				log.WithContext(c.UserContext()).Errorf("%s %s: %v", c.Method(), c.Path(), err)
				return c.Status(appErr.HTTPCode).SendString(MsgServerError)
			}
			return c.Status(appErr.HTTPCode).JSON(appErr.Body())
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code >= fiber.StatusInternalServerError {
				log.WithContext(c.UserContext()).Errorf("%s %s: %v", c.Method(), c.Path(), err)
				return c.Status(fiberErr.Code).SendString(MsgServerError)
			}
			return c.Status(fiberErr.Code).JSON(MessageBody{Message: fiberErr.Message})
		}

		log.WithContext(c.UserContext()).Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).SendString(MsgServerError)
	}
}
