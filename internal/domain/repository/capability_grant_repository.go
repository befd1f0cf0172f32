package repository

import (
	"context"

	"flightops-bot/internal/domain/entity"
)

// CapabilityGrantRepository defines the interface for capability to role lookups
type CapabilityGrantRepository interface {
	RolesFor(ctx context.Context, guildID string, capability entity.Capability) ([]string, error)
	Grant(ctx context.Context, grant *entity.CapabilityGrant) error
}
