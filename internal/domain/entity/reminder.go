package entity

import "time"

// ReminderTask is one deferred, cancellable notification keyed by flight code.
type ReminderTask struct {
	Key      string
	FlightID string
	FireAt   time.Time
	Payload  ReminderPayload
}

// ReminderPayload is what gets delivered when a task fires.
type ReminderPayload struct {
	RecipientID string
	Content     string
}
