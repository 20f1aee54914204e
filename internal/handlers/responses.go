package handlers

import (
	"errors"

	"watchlog/internal/services"
	"watchlog/pkg/tmdb"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps a service-layer failure onto an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrNoOp):
		return fiber.StatusConflict
	}

	var gwErr *tmdb.Error
	if errors.As(err, &gwErr) {
		if gwErr.Network {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}

// fail writes the uniform failure shape. err.Error() is user-facing copy for
// the known failure kinds; unrecognized errors carry wrapped internals, so
// those get a generic message and the detail stays in the handler's log line.
func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "Something went wrong. Please try again."
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ok writes the uniform success shape. data may be nil for operations with
// nothing to return.
func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}
