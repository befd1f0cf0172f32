package entity

import (
	"fmt"
	"strings"
)

// Capability names a permission a command requires.
type Capability string

const (
	CapabilityScheduleFlights Capability = "schedule_flights"
	CapabilityAffiliate       Capability = "affiliate"
)

// MemberRoles is a guild member's role set as reported by the platform.
type MemberRoles struct {
	UserID        string
	GuildID       string
	DisplayName   string
	RoleIDs       []string
	Administrator bool
}

// HasAnyRole reports whether the member holds at least one of roleIDs.
func (m *MemberRoles) HasAnyRole(roleIDs []string) bool {
	for _, want := range roleIDs {
		for _, have := range m.RoleIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// CapabilityGrant maps a capability to a role within a guild.
type CapabilityGrant struct {
	GuildID    string
	Capability Capability
	RoleID     string
}

// ParseCapabilityGrant parses a "capability:role" pair for guildID.
func ParseCapabilityGrant(guildID, value string) (*CapabilityGrant, error) {
	name, roleID, ok := strings.Cut(strings.TrimSpace(value), ":")
	name = strings.TrimSpace(name)
	roleID = strings.TrimSpace(roleID)
	if !ok || name == "" || roleID == "" {
		return nil, NewValidationError("grant", fmt.Sprintf("expected capability:role, got %q", value))
	}

	capability := Capability(name)
	switch capability {
	case CapabilityScheduleFlights, CapabilityAffiliate:
	default:
		return nil, NewValidationError("grant", fmt.Sprintf("unknown capability %q", name))
	}
	return &CapabilityGrant{
		GuildID:    guildID,
		Capability: capability,
		RoleID:     roleID,
	}, nil
}
