package repository

import (
	"context"

	"flightops-bot/internal/domain/entity"
)

// FlightEventPublisher fans lifecycle transitions out to subscribers
type FlightEventPublisher interface {
	Publish(ctx context.Context, event *entity.FlightEvent) error
}
