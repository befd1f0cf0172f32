package repository

import (
	"context"

	"flightops-bot/internal/domain/entity"
)

// FlightAuditRepository defines the interface for the lifecycle audit trail
type FlightAuditRepository interface {
	Record(ctx context.Context, event *entity.FlightEvent) error
	FindByFlightCode(ctx context.Context, flightCode string, limit int) ([]*entity.FlightEvent, error)
}
