package usecase

import (
	"context"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/pkg/logger"
)

// CommandAuthorizer decides whether an actor may run a command requiring a
// capability. It never returns an error: missing data means "no".
type CommandAuthorizer struct {
	platform repository.PlatformRepository
	grants   []repository.CapabilityGrantRepository
	logger   logger.Logger
}

// NewCommandAuthorizer creates a new authorizer. Grants from every repository
// are merged.
func NewCommandAuthorizer(
	platform repository.PlatformRepository,
	logger logger.Logger,
	grants ...repository.CapabilityGrantRepository,
) *CommandAuthorizer {
	return &CommandAuthorizer{
		platform: platform,
		grants:   grants,
		logger:   logger,
	}
}

// Authorize reports whether actorID holds capability in guildID, either
// through a granted role or the administrator permission.
func (a *CommandAuthorizer) Authorize(ctx context.Context, actorID, guildID string, capability entity.Capability) bool {
	if actorID == "" || guildID == "" {
		return false
	}

	member, err := a.platform.GetRoles(ctx, guildID, actorID)
	if err != nil || member == nil {
		a.logger.Warn("Failed to resolve member roles",
			"actorID", actorID,
			"guildID", guildID,
			"error", err)
		return false
	}
	if member.Administrator {
		return true
	}

	var allowed []string
	for _, repo := range a.grants {
		roles, err := repo.RolesFor(ctx, guildID, capability)
		if err != nil {
			a.logger.Warn("Failed to load capability grants",
				"capability", string(capability),
				"guildID", guildID,
				"error", err)
			continue
		}
		allowed = append(allowed, roles...)
	}

	return member.HasAnyRole(allowed)
}
