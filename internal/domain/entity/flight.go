// internal/domain/entity/flight.go
package entity

import (
	"strings"
	"time"
)

// FlightDuration is the fixed length of every flight event. EndTime is always
// StartTime + FlightDuration.
const FlightDuration = time.Hour

// FlightState is the lifecycle position of a flight. Values are ordered: the
// non-terminal states advance monotonically, Cancelled and Closed are terminal.
type FlightState int

const (
	StateDraft FlightState = iota
	StatePendingHostConfirmation
	StateScheduled
	StatePendingStaffConfirmation
	StateStaffAnnounced
	StateReminded
	StateCancelled
	StateClosed
)

var flightStateNames = map[FlightState]string{
	StateDraft:                    "draft",
	StatePendingHostConfirmation:  "pending_host_confirmation",
	StateScheduled:                "scheduled",
	StatePendingStaffConfirmation: "pending_staff_confirmation",
	StateStaffAnnounced:           "staff_announced",
	StateReminded:                 "reminded",
	StateCancelled:                "cancelled",
	StateClosed:                   "closed",
}

func (s FlightState) String() string {
	if name, ok := flightStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s FlightState) IsTerminal() bool {
	return s == StateCancelled || s == StateClosed
}

// IsMaterialized reports whether the platform event exists for this state.
func (s FlightState) IsMaterialized() bool {
	return s >= StateScheduled && !s.IsTerminal()
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to FlightState) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StateCancelled || to == StateClosed {
		return true
	}
	return to > from
}

// EventHandle references a scheduled event on the chat platform.
type EventHandle struct {
	ID  string `json:"id" bson:"id"`
	URL string `json:"url" bson:"url"`
}

// MessageHandle references a message posted on the chat platform.
type MessageHandle struct {
	ChannelID string `json:"channelId" bson:"channelId"`
	MessageID string `json:"messageId" bson:"messageId"`
}

// Flight is one scheduled role-play flight event and its lifecycle state.
type Flight struct {
	ID               string         `json:"id" bson:"flightId"`
	Code             string         `json:"flightCode" bson:"flightCode"`
	Route            string         `json:"route" bson:"route"`
	Aircraft         string         `json:"aircraft" bson:"aircraft"`
	StartTime        time.Time      `json:"startTime" bson:"startTime"`
	EndTime          time.Time      `json:"endTime" bson:"endTime"`
	HostID           string         `json:"hostId" bson:"hostId"`
	HostName         string         `json:"hostName" bson:"hostName"`
	CreatorID        string         `json:"creatorId" bson:"creatorId"`
	GuildID          string         `json:"guildId" bson:"guildId"`
	State            FlightState    `json:"state" bson:"state"`
	PlatformEventRef *EventHandle   `json:"platformEventRef,omitempty" bson:"platformEventRef,omitempty"`
	StaffMessageRef  *MessageHandle `json:"staffMessageRef,omitempty" bson:"staffMessageRef,omitempty"`
	Announced        bool           `json:"announced" bson:"announced"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// HasEnded reports whether the flight's end time has been reached at now.
func (f *Flight) HasEnded(now time.Time) bool {
	return !now.Before(f.EndTime)
}

// CreateFlightRequest carries the validated-later inputs of flight_create.
type CreateFlightRequest struct {
	Code      string
	Route     string
	Aircraft  string
	Date      string
	Time      string
	HostID    string
	HostName  string
	CreatorID string
	GuildID   string
}

// NormalizeFlightCode trims and upper-cases a flight code. Lookups compare
// normalized codes for exact equality.
func NormalizeFlightCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
