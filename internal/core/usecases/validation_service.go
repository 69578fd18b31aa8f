package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/ports"
	"github.com/samirrijal/heritagepass/internal/core/validation"
	"github.com/samirrijal/heritagepass/internal/pkg/logging"
	"github.com/samirrijal/heritagepass/internal/pkg/metrics"
	"github.com/samirrijal/heritagepass/internal/pkg/telemetry"
)

// ValidationService runs entity validation and reports outcomes.
type ValidationService struct {
	validator *validation.Validator
	events    ports.EventPublisher
	now       func() time.Time
	source    string
}

// NewValidationService creates a new ValidationService. events may be nil.
func NewValidationService(v *validation.Validator, events ports.EventPublisher, source string) *ValidationService {
	return &ValidationService{validator: v, events: events, now: time.Now, source: source}
}

// Validate sanitizes and validates raw as the named entity. Rule failures
// are reported in the Result; the error is only set for an unknown entity or
// an undecodable payload. Publishing the outcome never changes the result.
func (s *ValidationService) Validate(ctx context.Context, entity string, raw map[string]any) (validation.Result, error) {
	kind, ok := domain.ParseEntity(entity)
	if !ok {
		return validation.Result{}, fmt.Errorf("%w: %q", validation.ErrUnknownEntity, entity)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "validation.Validate")
	defer span.End()
	span.SetAttributes(telemetry.AttrEntity.String(string(kind)))

	start := time.Now()
	res, err := s.validator.Validate(kind, raw)
	metrics.ValidationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode payload")
		metrics.ValidationsTotal.WithLabelValues(string(kind), "malformed").Inc()
		return validation.Result{}, fmt.Errorf("decode %s: %w", kind, err)
	}

	outcome := "valid"
	if !res.IsValid {
		outcome = "invalid"
	}
	metrics.ValidationsTotal.WithLabelValues(string(kind), outcome).Inc()
	for _, fe := range res.Errors {
		metrics.FieldErrorsTotal.WithLabelValues(string(kind), fe.Field).Inc()
	}
	span.SetAttributes(
		telemetry.AttrValid.Bool(res.IsValid),
		telemetry.AttrErrorCount.Int(len(res.Errors)),
	)

	log := logging.FromContext(ctx)
	log.Debug("validation finished", "entity", kind, "valid", res.IsValid, "errors", len(res.Errors))

	s.publish(ctx, log, kind, res)
	return res, nil
}

func (s *ValidationService) publish(ctx context.Context, log *slog.Logger, kind domain.Entity, res validation.Result) {
	if s.events == nil {
		return
	}
	event := &domain.ValidationEvent{
		ID:         uuid.NewString(),
		Entity:     kind,
		Valid:      res.IsValid,
		ErrorCount: len(res.Errors),
		Fields:     res.Fields(),
		Source:     s.source,
		OccurredAt: s.now().UTC(),
	}
	if err := s.events.PublishValidationOutcome(ctx, event); err != nil {
		metrics.EventPublishErrors.WithLabelValues(string(kind)).Inc()
		log.Warn("publish validation outcome", "entity", kind, "error", err)
	}
}

// Sanitize strips markup and SQL fragments from value. Maps and lists are
// cleaned recursively; the "password" key of a map is left untouched.
func (s *ValidationService) Sanitize(ctx context.Context, value any) any {
	_, span := telemetry.Tracer().Start(ctx, "validation.Sanitize")
	defer span.End()

	metrics.SanitizeTotal.Inc()
	if m, ok := value.(map[string]any); ok {
		return validation.SanitizePayload(m)
	}
	return validation.Sanitize(value)
}

// Entities lists the entity kinds Validate accepts.
func (s *ValidationService) Entities() []domain.Entity {
	return domain.Entities
}
