// Package discord connects Discord interactions to the command dispatcher.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/usecase"
	"flightops-bot/pkg/logger"
)

const (
	interactionTimeout = 10 * time.Second
	gateTimedOutText   = "Confirmation timed out."
)

// Responder is the part of *discordgo.Session the gateway replies through.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Dispatcher handles decoded commands and gate presses.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *entity.CommandRequest) *entity.CommandResponse
	ResolveGate(ctx context.Context, gateID, actorID string, confirm bool) *entity.CommandResponse
}

// Gateway turns interactions into dispatcher calls and renders exactly one
// response for each.
type Gateway struct {
	responder  Responder
	dispatcher Dispatcher
	logger     logger.Logger

	mu sync.Mutex
	// shownBy maps an open gate to the interaction whose response displays
	// its buttons.
	shownBy map[string]*discordgo.Interaction
}

// NewGateway creates a new gateway
func NewGateway(responder Responder, dispatcher Dispatcher, logger logger.Logger) *Gateway {
	return &Gateway{
		responder:  responder,
		dispatcher: dispatcher,
		logger:     logger,
		shownBy:    make(map[string]*discordgo.Interaction),
	}
}

// OnInteraction is registered with session.AddHandler.
func (g *Gateway) OnInteraction(_ *discordgo.Session, event *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()
	g.HandleInteraction(ctx, event.Interaction)
}

// HandleInteraction routes one interaction.
func (g *Gateway) HandleInteraction(ctx context.Context, interaction *discordgo.Interaction) {
	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		g.handleCommand(ctx, interaction)
	case discordgo.InteractionMessageComponent:
		g.handleComponent(ctx, interaction)
	default:
		g.logger.Debug("Ignoring interaction", "type", interaction.Type.String())
	}
}

func (g *Gateway) handleCommand(ctx context.Context, interaction *discordgo.Interaction) {
	req := DecodeCommand(interaction)
	resp := g.dispatcher.Dispatch(ctx, req)

	err := g.responder.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: ResponseData(resp),
	})
	if err != nil {
		g.logger.Error("Failed to respond to command",
			"command", req.Name,
			"actorID", req.ActorID,
			"error", err)
		return
	}
	g.track(resp, interaction)
}

func (g *Gateway) handleComponent(ctx context.Context, interaction *discordgo.Interaction) {
	customID := interaction.MessageComponentData().CustomID
	gateID, confirm, ok := ParseGateCustomID(customID)
	if !ok {
		g.logger.Debug("Ignoring unknown component", "customID", customID)
		return
	}

	// Confirming may create the Discord event; that can take longer than
	// the 3s initial response window.
	err := g.responder.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		g.logger.Error("Failed to acknowledge gate interaction",
			"gateID", gateID,
			"error", err)
		return
	}

	resp := g.dispatcher.ResolveGate(ctx, gateID, actorID(interaction), confirm)

	// Rejections go to the presser only; the gate message stays as is.
	if resp.Ephemeral {
		if _, err := g.responder.FollowupMessageCreate(interaction, false, FollowupData(resp)); err != nil {
			g.logger.Error("Failed to send gate rejection",
				"gateID", gateID,
				"error", err)
		}
		return
	}

	g.untrack(gateID)
	if _, err := g.responder.InteractionResponseEdit(interaction, EditData(resp)); err != nil {
		g.logger.Error("Failed to update gate message",
			"gateID", gateID,
			"error", err)
		return
	}
	g.track(resp, interaction)
}

// ReleaseGate removes the buttons of a gate that timed out. It has the
// usecase.TimeoutNotifier signature.
func (g *Gateway) ReleaseGate(ctx context.Context, gate *usecase.ConfirmationGate) {
	interaction := g.untrack(gate.ID())
	if interaction == nil {
		return
	}

	content := gateTimedOutText
	components := []discordgo.MessageComponent{}
	if _, err := g.responder.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}); err != nil {
		g.logger.Warn("Failed to release timed out gate",
			"gateID", gate.ID(),
			"error", err)
	}
}

func (g *Gateway) track(resp *entity.CommandResponse, interaction *discordgo.Interaction) {
	if resp.Gate == nil {
		return
	}
	g.mu.Lock()
	g.shownBy[resp.Gate.GateID] = interaction
	g.mu.Unlock()
}

func (g *Gateway) untrack(gateID string) *discordgo.Interaction {
	g.mu.Lock()
	defer g.mu.Unlock()
	interaction := g.shownBy[gateID]
	delete(g.shownBy, gateID)
	return interaction
}

// DecodeCommand converts a slash command interaction into a CommandRequest.
func DecodeCommand(interaction *discordgo.Interaction) *entity.CommandRequest {
	data := interaction.ApplicationCommandData()
	req := &entity.CommandRequest{
		Name:      data.Name,
		GuildID:   interaction.GuildID,
		ChannelID: interaction.ChannelID,
		ActorID:   actorID(interaction),
		ActorName: actorName(interaction),
		Options:   make(map[string]string, len(data.Options)),
		Users:     make(map[string]string),
	}

	for _, option := range data.Options {
		if option == nil || option.Value == nil {
			continue
		}
		switch option.Type {
		case discordgo.ApplicationCommandOptionString:
			req.Options[option.Name] = option.StringValue()
		case discordgo.ApplicationCommandOptionUser:
			userID := option.UserValue(nil).ID
			req.Options[option.Name] = userID
			req.Users[userID] = resolvedName(data.Resolved, userID)
		default:
			req.Options[option.Name] = fmt.Sprint(option.Value)
		}
	}
	return req
}

func resolvedName(resolved *discordgo.ApplicationCommandInteractionDataResolved, userID string) string {
	if resolved == nil {
		return ""
	}
	if member, ok := resolved.Members[userID]; ok && member != nil && member.Nick != "" {
		return member.Nick
	}
	if user, ok := resolved.Users[userID]; ok && user != nil {
		return user.DisplayName()
	}
	return ""
}

func actorID(interaction *discordgo.Interaction) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}

func actorName(interaction *discordgo.Interaction) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.DisplayName()
	}
	if interaction.User != nil {
		return interaction.User.DisplayName()
	}
	return ""
}
