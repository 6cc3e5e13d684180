package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/models"
	"github.com/soltixdb/soltix-forecast/internal/services"
)

// ErrorHandler renders every error as {"error": message}. Server-side failures
// are logged in full and answered with the generic internal-error message.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := services.MessageInternal

		var svcErr *services.ServiceError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &svcErr):
			code = svcErr.Status
			message = svcErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"request_id", logging.RequestID(c.UserContext()),
			"error", err,
		}
		if code >= fiber.StatusInternalServerError {
			message = services.MessageInternal
			if svcErr != nil && svcErr.Err != nil {
				fields = append(fields, "cause", svcErr.Err)
			}
			logger.Error("Request error", fields...)
		} else {
			logger.Debug("Request rejected", fields...)
		}

		return c.Status(code).JSON(models.ErrorResponse{Error: message})
	}
}
