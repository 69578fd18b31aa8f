package http

import (
	"context"

	"github.com/samirrijal/heritagepass/internal/core/usecases"
)

// Pinger is a backing service that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker reports whether the event connection is up.
type Broker interface {
	Connected() bool
}

// Dependencies holds all services needed by HTTP handlers. DB, Cache and
// NATS are optional and only consulted by the readiness check; leave them
// nil when not configured.
type Dependencies struct {
	Validation *usecases.ValidationService
	Geo        *usecases.GeoService
	DB         Pinger
	Cache      Pinger
	NATS       Broker
	Version    string
}
