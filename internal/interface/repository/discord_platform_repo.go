package repository

import (
	"context"
	"errors"
	"fmt"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/internal/interface/discord"
	"flightops-bot/pkg/logger"

	"github.com/bwmarrin/discordgo"
)

// DiscordSession is the part of *discordgo.Session the platform repository uses
type DiscordSession interface {
	GuildScheduledEventCreate(guildID string, event *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEvents(guildID string, userCount bool, options ...discordgo.RequestOption) ([]*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventDelete(guildID, eventID string, options ...discordgo.RequestOption) error
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
}

// DiscordPlatformRepository implements PlatformRepository on the Discord REST API
type DiscordPlatformRepository struct {
	session DiscordSession
	logger  logger.Logger
}

// NewDiscordPlatformRepository creates a new Discord platform repository
func NewDiscordPlatformRepository(session DiscordSession, logger logger.Logger) repository.PlatformRepository {
	return &DiscordPlatformRepository{
		session: session,
		logger:  logger,
	}
}

// EventURL returns the public link of a scheduled event
func EventURL(guildID, eventID string) string {
	return fmt.Sprintf("https://discord.com/events/%s/%s", guildID, eventID)
}

// CreateScheduledEvent creates an external scheduled event. Discord only
// offers guild-only privacy for scheduled events.
func (r *DiscordPlatformRepository) CreateScheduledEvent(ctx context.Context, guildID string, params repository.ScheduledEventParams) (*entity.EventHandle, error) {
	start := params.StartTime
	end := params.EndTime
	privacy := discordgo.GuildScheduledEventPrivacyLevelGuildOnly

	event, err := r.session.GuildScheduledEventCreate(guildID, &discordgo.GuildScheduledEventParams{
		Name:               params.Name,
		Description:        params.Description,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		PrivacyLevel:       privacy,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     &discordgo.GuildScheduledEventEntityMetadata{Location: params.Location},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, entity.NewPlatformError("create_scheduled_event", err)
	}

	r.logger.Info("Scheduled event created",
		"guildID", guildID,
		"eventID", event.ID,
		"name", params.Name)

	return &entity.EventHandle{
		ID:  event.ID,
		URL: EventURL(guildID, event.ID),
	}, nil
}

// FetchScheduledEvents lists the guild's scheduled events
func (r *DiscordPlatformRepository) FetchScheduledEvents(ctx context.Context, guildID string) ([]*entity.EventHandle, error) {
	events, err := r.session.GuildScheduledEvents(guildID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, entity.NewPlatformError("fetch_scheduled_events", err)
	}

	handles := make([]*entity.EventHandle, 0, len(events))
	for _, event := range events {
		handles = append(handles, &entity.EventHandle{
			ID:  event.ID,
			URL: EventURL(guildID, event.ID),
		})
	}
	return handles, nil
}

// DeleteScheduledEvent removes a scheduled event
func (r *DiscordPlatformRepository) DeleteScheduledEvent(ctx context.Context, guildID string, eventID string) error {
	if err := r.session.GuildScheduledEventDelete(guildID, eventID, discordgo.WithContext(ctx)); err != nil {
		return entity.NewPlatformError("delete_scheduled_event", err)
	}
	return nil
}

// SendMessage posts a message to a channel
func (r *DiscordPlatformRepository) SendMessage(ctx context.Context, channelID string, msg *entity.OutboundMessage) (*entity.MessageHandle, error) {
	message, err := r.session.ChannelMessageSendComplex(channelID, discord.OutboundMessage(msg), discordgo.WithContext(ctx))
	if err != nil {
		return nil, entity.NewPlatformError("send_message", err)
	}
	return &entity.MessageHandle{
		ChannelID: message.ChannelID,
		MessageID: message.ID,
	}, nil
}

// DeleteMessage removes a posted message
func (r *DiscordPlatformRepository) DeleteMessage(ctx context.Context, handle *entity.MessageHandle) error {
	if err := r.session.ChannelMessageDelete(handle.ChannelID, handle.MessageID, discordgo.WithContext(ctx)); err != nil {
		return entity.NewPlatformError("delete_message", err)
	}
	return nil
}

// AddReactions adds reactions in order, stopping at the first failure
func (r *DiscordPlatformRepository) AddReactions(ctx context.Context, handle *entity.MessageHandle, reactions []string) error {
	for _, reaction := range reactions {
		if err := r.session.MessageReactionAdd(handle.ChannelID, handle.MessageID, reaction, discordgo.WithContext(ctx)); err != nil {
			return entity.NewPlatformError("add_reaction", err)
		}
	}
	return nil
}

// SendDirectMessage sends content to a user's DM channel. A user refusing
// DMs yields entity.ErrDeliveryBlocked.
func (r *DiscordPlatformRepository) SendDirectMessage(ctx context.Context, userID string, content string) error {
	channel, err := r.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return classifyDirectMessageError(err)
	}
	if _, err := r.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{Content: content}, discordgo.WithContext(ctx)); err != nil {
		return classifyDirectMessageError(err)
	}
	return nil
}

// GetRoles returns the member's roles and whether any grants administrator
func (r *DiscordPlatformRepository) GetRoles(ctx context.Context, guildID string, userID string) (*entity.MemberRoles, error) {
	member, err := r.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, entity.NewPlatformError("get_member", err)
	}
	roles, err := r.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, entity.NewPlatformError("get_roles", err)
	}

	result := &entity.MemberRoles{
		UserID:        userID,
		GuildID:       guildID,
		RoleIDs:       append([]string(nil), member.Roles...),
		Administrator: member.Permissions&discordgo.PermissionAdministrator != 0,
	}
	if member.User != nil {
		result.DisplayName = member.DisplayName()
	}

	held := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		held[id] = true
	}
	for _, role := range roles {
		if held[role.ID] && role.Permissions&discordgo.PermissionAdministrator != 0 {
			result.Administrator = true
			break
		}
	}
	return result, nil
}

func classifyDirectMessageError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser {
		return fmt.Errorf("%s: %w", restErr.Message.Message, entity.ErrDeliveryBlocked)
	}
	return entity.NewPlatformError("send_direct_message", err)
}
