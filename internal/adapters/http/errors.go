package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/heritagepass/internal/core/validation"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, internal_error, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// ValidationError is the 422 body returned when a payload fails its rules.
type ValidationError struct {
	APIError
	Errors []validation.FieldError `json:"errors"`
}

func requestID(c *fiber.Ctx) string {
	reqID, _ := c.Locals("requestid").(string)
	return reqID
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errValidation returns a 422 error listing every failed field.
func errValidation(c *fiber.Ctx, res validation.Result) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationError{
		APIError: APIError{
			Status:    fiber.StatusUnprocessableEntity,
			Code:      "validation_failed",
			Message:   "Validation failed",
			RequestID: requestID(c),
		},
		Errors: res.Errors,
	})
}
