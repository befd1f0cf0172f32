package usecase

import (
	"context"
	"errors"
	"testing"

	"flightops-bot/internal/domain/entity"
)

type fakeGrants struct {
	roles map[entity.Capability][]string
	err   error
}

func (g fakeGrants) RolesFor(_ context.Context, _ string, capability entity.Capability) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.roles[capability], nil
}

func (g fakeGrants) Grant(_ context.Context, _ *entity.CapabilityGrant) error {
	return errors.New("read only")
}

func TestCommandAuthorizer(t *testing.T) {
	platform := newFakePlatform()
	platform.members["scheduler"] = &entity.MemberRoles{UserID: "scheduler", RoleIDs: []string{"role-sched"}}
	platform.members["admin"] = &entity.MemberRoles{UserID: "admin", Administrator: true}
	platform.members["pilot"] = &entity.MemberRoles{UserID: "pilot", RoleIDs: []string{"role-pilot"}}
	platform.members["partner"] = &entity.MemberRoles{UserID: "partner", RoleIDs: []string{"role-db"}}

	static := fakeGrants{roles: map[entity.Capability][]string{
		entity.CapabilityScheduleFlights: {"role-sched"},
	}}
	database := fakeGrants{roles: map[entity.Capability][]string{
		entity.CapabilityAffiliate: {"role-db"},
	}}
	broken := fakeGrants{err: errors.New("db down")}

	authorizer := NewCommandAuthorizer(platform, newTestLogger(), static, broken, database)
	ctx := context.Background()

	tests := []struct {
		name       string
		actorID    string
		guildID    string
		capability entity.Capability
		want       bool
	}{
		{"granted role", "scheduler", "guild", entity.CapabilityScheduleFlights, true},
		{"role for another capability", "scheduler", "guild", entity.CapabilityAffiliate, false},
		{"administrator", "admin", "guild", entity.CapabilityAffiliate, true},
		{"no matching role", "pilot", "guild", entity.CapabilityScheduleFlights, false},
		{"grant from second repository", "partner", "guild", entity.CapabilityAffiliate, true},
		{"unknown member", "stranger", "guild", entity.CapabilityScheduleFlights, false},
		{"no guild", "admin", "", entity.CapabilityScheduleFlights, false},
		{"no actor", "", "guild", entity.CapabilityScheduleFlights, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authorizer.Authorize(ctx, tt.actorID, tt.guildID, tt.capability); got != tt.want {
				t.Errorf("Authorize(%q, %q, %s) = %v, want %v", tt.actorID, tt.guildID, tt.capability, got, tt.want)
			}
		})
	}
}

func TestCommandAuthorizerPlatformFailure(t *testing.T) {
	platform := newFakePlatform()
	platform.members["admin"] = &entity.MemberRoles{UserID: "admin", Administrator: true}
	platform.rolesErr = errPlatformDown

	authorizer := NewCommandAuthorizer(platform, newTestLogger())
	if authorizer.Authorize(context.Background(), "admin", "guild", entity.CapabilityScheduleFlights) {
		t.Error("authorized while roles could not be fetched")
	}
}
