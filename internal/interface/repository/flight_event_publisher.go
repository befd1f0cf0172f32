package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"

	"github.com/nats-io/nats.go"
)

// NatsFlightEventPublisher publishes lifecycle events as JSON on
// <prefix>.flight.<state>
type NatsFlightEventPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNatsFlightEventPublisher creates a new NATS publisher
func NewNatsFlightEventPublisher(conn *nats.Conn, prefix string) repository.FlightEventPublisher {
	return &NatsFlightEventPublisher{
		conn:   conn,
		prefix: prefix,
	}
}

// FlightEventSubject returns the subject an event in state is published on
func FlightEventSubject(prefix string, state entity.FlightState) string {
	return fmt.Sprintf("%s.flight.%s", prefix, state.String())
}

// Publish sends event. Delivery is fire-and-forget.
func (p *NatsFlightEventPublisher) Publish(ctx context.Context, event *entity.FlightEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal flight event: %w", err)
	}
	if err := p.conn.Publish(FlightEventSubject(p.prefix, event.State), data); err != nil {
		return fmt.Errorf("failed to publish flight event: %w", err)
	}
	return nil
}

// NoopFlightEventPublisher drops every event
type NoopFlightEventPublisher struct{}

// Publish does nothing
func (NoopFlightEventPublisher) Publish(context.Context, *entity.FlightEvent) error { return nil }

// NoopFlightAuditRepository keeps no audit trail
type NoopFlightAuditRepository struct{}

// Record does nothing
func (NoopFlightAuditRepository) Record(context.Context, *entity.FlightEvent) error { return nil }

// FindByFlightCode always returns no events
func (NoopFlightAuditRepository) FindByFlightCode(context.Context, string, int) ([]*entity.FlightEvent, error) {
	return nil, nil
}
