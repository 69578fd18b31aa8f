package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	prefix string
}

func connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("heritagepass"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// NewPublisher connects to NATS and makes sure the validation stream exists.
// Events go to "<prefix>.<entity>".
func NewPublisher(url, stream, prefix string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{prefix + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
		}
	}

	return &Publisher{conn: conn, js: js, prefix: prefix}, nil
}

// Subject returns the subject an entity's events are published on.
func Subject(prefix string, entity domain.Entity) string {
	return prefix + "." + string(entity)
}

// PublishValidationOutcome publishes event as JSON. The event ID is used as
// the JetStream message ID so redeliveries are de-duplicated.
func (p *Publisher) PublishValidationOutcome(ctx context.Context, event *domain.ValidationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal validation event: %w", err)
	}
	_, err = p.js.Publish(Subject(p.prefix, event.Entity), data,
		nats.Context(ctx),
		nats.MsgId(event.ID),
	)
	return err
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
