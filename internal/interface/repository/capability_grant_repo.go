package repository

import (
	"context"
	"fmt"

	"flightops-bot/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCapabilityGrantRepository implements the CapabilityGrantRepository interface
type GormCapabilityGrantRepository struct {
	db *gorm.DB
}

// NewGormCapabilityGrantRepository creates a new GORM capability grant repository
func NewGormCapabilityGrantRepository(db *gorm.DB) *GormCapabilityGrantRepository {
	return &GormCapabilityGrantRepository{
		db: db,
	}
}

// CapabilityGrants GORM model for database mapping
type CapabilityGrants struct {
	gorm.Model
	GuildID    string `gorm:"column:guild_id;uniqueIndex:idx_capability_grant"`
	Capability string `gorm:"column:capability;uniqueIndex:idx_capability_grant"`
	RoleID     string `gorm:"column:role_id;uniqueIndex:idx_capability_grant"`
}

// TableName overrides the default table name
func (CapabilityGrants) TableName() string {
	return "capability_grants"
}

// Migrate creates or updates the grants table
func (r *GormCapabilityGrantRepository) Migrate() error {
	return r.db.AutoMigrate(&CapabilityGrants{})
}

// RolesFor returns the role IDs granted capability in guildID
func (r *GormCapabilityGrantRepository) RolesFor(ctx context.Context, guildID string, capability entity.Capability) ([]string, error) {
	var roles []string
	result := r.db.WithContext(ctx).
		Model(&CapabilityGrants{}).
		Where("guild_id = ? AND capability = ?", guildID, string(capability)).
		Pluck("role_id", &roles)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load grants: %w", result.Error)
	}
	return roles, nil
}

// Grant stores a grant; granting twice is a no-op
func (r *GormCapabilityGrantRepository) Grant(ctx context.Context, grant *entity.CapabilityGrant) error {
	model := CapabilityGrants{
		GuildID:    grant.GuildID,
		Capability: string(grant.Capability),
		RoleID:     grant.RoleID,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	return result.Error
}

// StaticCapabilityGrantRepository serves grants from configuration
type StaticCapabilityGrantRepository struct {
	guildID string
	grants  map[entity.Capability][]string
}

// NewStaticCapabilityGrantRepository creates grants for one guild
func NewStaticCapabilityGrantRepository(guildID string, grants map[entity.Capability][]string) *StaticCapabilityGrantRepository {
	copied := make(map[entity.Capability][]string, len(grants))
	for capability, roles := range grants {
		copied[capability] = append([]string(nil), roles...)
	}
	return &StaticCapabilityGrantRepository{
		guildID: guildID,
		grants:  copied,
	}
}

// RolesFor returns the configured roles for capability
func (r *StaticCapabilityGrantRepository) RolesFor(_ context.Context, guildID string, capability entity.Capability) ([]string, error) {
	if guildID != r.guildID {
		return nil, nil
	}
	return append([]string(nil), r.grants[capability]...), nil
}

// Grant always fails: configured grants are read-only
func (r *StaticCapabilityGrantRepository) Grant(_ context.Context, grant *entity.CapabilityGrant) error {
	return fmt.Errorf("grant %s to role %s: configured grants are read-only", grant.Capability, grant.RoleID)
}
