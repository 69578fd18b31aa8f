package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/heritagepass/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	prefix string
	subs   []*nats.Subscription
}

// NewSubscriber creates a subscriber on its own NATS connection.
func NewSubscriber(url, prefix string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js, prefix: prefix}, nil
}

// SubscribeValidationOutcomes delivers events for entity, or for every
// entity when entity is empty. Messages the handler rejects are redelivered
// up to three times; undecodable ones are terminated.
func (s *Subscriber) SubscribeValidationOutcomes(ctx context.Context, entity string, handler func(ctx context.Context, event *domain.ValidationEvent) error) error {
	subject := s.prefix + ".>"
	if entity != "" {
		subject = Subject(s.prefix, domain.Entity(entity))
	}

	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var event domain.ValidationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("drop undecodable validation event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
