package entity

import "time"

// FlightEvent records one lifecycle transition. It is appended to the audit
// trail and published to subscribers. The trail is read back for operators
// only, never to rebuild state.
type FlightEvent struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	FlightID   string      `json:"flightId" bson:"flightId"`
	FlightCode string      `json:"flightCode" bson:"flightCode"`
	GuildID    string      `json:"guildId" bson:"guildId"`
	From       string      `json:"from" bson:"from"`
	To         string      `json:"to" bson:"to"`
	ActorID    string      `json:"actorId,omitempty" bson:"actorId,omitempty"`
	Detail     string      `json:"detail,omitempty" bson:"detail,omitempty"`
	Flight     Flight      `json:"flight" bson:"flight"`
	State      FlightState `json:"-" bson:"-"`
	OccurredAt time.Time   `json:"occurredAt" bson:"occurredAt"`
}
