package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aminebenjebli/flowspace/internal/shared/domain"
	"github.com/google/uuid"
)

// Envelope is the wire format for domain events on the bus.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	UserID        uuid.UUID       `json:"user_id,omitempty"`
	CorrelationID uuid.UUID       `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event for publication. The event itself is
// marshalled into the payload so consumers get event-specific fields.
func NewEnvelope(event domain.DomainEvent) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		UserID:        event.Metadata().UserID,
		CorrelationID: event.Metadata().CorrelationID,
		Payload:       payload,
	}, nil
}

// PublishDomainEvents serializes and publishes a batch of domain events.
// Publishing is best-effort: the first failure is returned but callers are
// expected to log it rather than fail the surrounding operation.
func PublishDomainEvents(ctx context.Context, pub Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		env, err := NewEnvelope(event)
		if err != nil {
			return err
		}
		body, err := json.Marshal(env)
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, event.RoutingKey(), body); err != nil {
			return err
		}
	}
	return nil
}
