package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"maintdeck/internal/store"
)

const Version = "1.2.0"

// envelope is the platform response shape consumed by every client:
// {status: "Success"|"Failure", message, data?, total?, timestamp}.
type envelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Total     *int64      `json:"total,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func success(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(envelope{
		Status:    "Success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func successList(c *fiber.Ctx, message string, data interface{}, total int64) error {
	return c.Status(fiber.StatusOK).JSON(envelope{
		Status:    "Success",
		Message:   message,
		Data:      data,
		Total:     &total,
		Timestamp: time.Now().UTC(),
	})
}

func failure(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(envelope{
		Status:    "Failure",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// renderError maps domain error kinds onto transport codes. Anything outside
// the known kinds is an internal failure whose details stay in the log.
func renderError(c *fiber.Ctx, err error, internalMsg string) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return failure(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return failure(c, fiber.StatusNotFound, err.Error())
	default:
		slog.Error(internalMsg, "error", err)
		return failure(c, fiber.StatusInternalServerError, internalMsg)
	}
}

// actorFrom resolves the authenticated operator stamped into audit metadata.
func actorFrom(c *fiber.Ctx) string {
	if actor, ok := c.Locals("username").(string); ok && actor != "" {
		return actor
	}
	return "anonymous"
}
