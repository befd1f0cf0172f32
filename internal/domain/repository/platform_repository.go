package repository

import (
	"context"
	"time"

	"flightops-bot/internal/domain/entity"
)

// ScheduledEventParams describes a platform scheduled event to create.
type ScheduledEventParams struct {
	Name        string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// PlatformRepository is the thin interface to the chat platform. Every call
// may fail with *entity.PlatformError; SendDirectMessage fails with
// entity.ErrDeliveryBlocked when the recipient refuses direct messages.
type PlatformRepository interface {
	CreateScheduledEvent(ctx context.Context, guildID string, params ScheduledEventParams) (*entity.EventHandle, error)
	FetchScheduledEvents(ctx context.Context, guildID string) ([]*entity.EventHandle, error)
	DeleteScheduledEvent(ctx context.Context, guildID string, eventID string) error
	SendMessage(ctx context.Context, channelID string, msg *entity.OutboundMessage) (*entity.MessageHandle, error)
	DeleteMessage(ctx context.Context, handle *entity.MessageHandle) error
	AddReactions(ctx context.Context, handle *entity.MessageHandle, reactions []string) error
	SendDirectMessage(ctx context.Context, userID string, content string) error
	GetRoles(ctx context.Context, guildID string, userID string) (*entity.MemberRoles, error)
}
