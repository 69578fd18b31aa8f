package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/heritagepass/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST and GraphQL routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/entities", EntitiesHandler(deps))
	v1.Post("/validate/:entity", timeout.NewWithContext(ValidateHandler(deps), requestTimeout))
	v1.Post("/sanitize", timeout.NewWithContext(SanitizeHandler(deps), requestTimeout))

	geo := v1.Group("/geo")
	geo.Get("/nearest-landmark", timeout.NewWithContext(NearestLandmarkHandler(deps), requestTimeout))
	geo.Get("/meeting-points", timeout.NewWithContext(MeetingPointsHandler(deps), requestTimeout))
	geo.Post("/route", timeout.NewWithContext(RouteHandler(deps), requestTimeout))
	geo.Get("/service-area", ServiceAreaHandler(deps))
	geo.Get("/travel-time", TravelTimeHandler(deps))
	geo.Get("/safety", timeout.NewWithContext(SafetyHandler(deps), requestTimeout))
	geo.Get("/format", FormatHandler(deps))
	geo.Get("/describe", DescribeHandler(deps))

	v1.Get("/reference/landmarks", ListLandmarksHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)
}
