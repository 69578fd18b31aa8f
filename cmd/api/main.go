package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/heritagepass/internal/adapters/http"
	natsadapter "github.com/samirrijal/heritagepass/internal/adapters/nats"
	"github.com/samirrijal/heritagepass/internal/adapters/postgres"
	"github.com/samirrijal/heritagepass/internal/adapters/valkey"
	"github.com/samirrijal/heritagepass/internal/core/geo"
	"github.com/samirrijal/heritagepass/internal/core/ports"
	"github.com/samirrijal/heritagepass/internal/core/usecases"
	"github.com/samirrijal/heritagepass/internal/core/validation"
	"github.com/samirrijal/heritagepass/internal/pkg/config"
	"github.com/samirrijal/heritagepass/internal/pkg/logging"
	"github.com/samirrijal/heritagepass/internal/pkg/metrics"
	"github.com/samirrijal/heritagepass/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("heritagepass-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{Version: version}

	// Reference data: config tables, or Postgres with config as fallback
	var refRepo ports.ReferenceRepository
	if cfg.Reference.Source == config.ReferenceSourcePostgres {
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		refRepo = postgres.NewReferenceRepo(db)
		deps.DB = db

		go reportPoolStats(ctx, db)
	}
	ref, err := usecases.NewReferenceService(refRepo, cfg.Geography.ReferenceData()).Load(ctx)
	if err != nil {
		log.Fatalf("reference data: %v", err)
	}
	locator := geo.NewLocator(cfg.Geography.ServiceArea, ref)

	// Cache
	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer c.Close()
		cache = c
		deps.Cache = c
	}

	// NATS
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL, cfg.NATS.Stream, cfg.NATS.SubjectPrefix); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
		deps.NATS = pub
	}

	validator := validation.New(validation.Options{
		Area:        locator,
		BufferKm:    &cfg.Validation.ServiceAreaBufferKm,
		PhoneRegion: cfg.Validation.PhoneRegion,
		AreaName:    cfg.Geography.ServiceArea.City,
	})
	deps.Validation = usecases.NewValidationService(validator, events, "api")
	deps.Geo = usecases.NewGeoService(locator, cache, cfg.Valkey.TTLSeconds)

	slog.Info("reference data loaded",
		"source", cfg.Reference.Source,
		"landmarks", len(ref.Landmarks),
		"meeting_points", len(ref.MeetingPoints),
		"area", cfg.Geography.ServiceArea.City,
	)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitKB * 1024,
		AppName:      "HeritagePass API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}
