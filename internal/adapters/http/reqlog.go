package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/heritagepass/internal/pkg/logging"
)

// RequestIDLogMiddleware stores a request-scoped *slog.Logger, carrying the
// Fiber request ID, in the user context. Services read it back with
// logging.FromContext.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := requestID(c)
		if rid == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", rid)
		c.SetUserContext(logging.WithContext(c.UserContext(), reqLogger))
		return c.Next()
	}
}

// LoggerFromCtx returns the request logger for c, or the default logger.
func LoggerFromCtx(c *fiber.Ctx) *slog.Logger {
	return logging.FromContext(c.UserContext())
}
