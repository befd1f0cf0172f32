package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"flightops-bot/internal/domain/entity"
)

const (
	gatePrefix    = "gate"
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

// ToMessageEmbeds converts domain embeds to the wire type.
func ToMessageEmbeds(embeds []*entity.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, embed := range embeds {
		if embed == nil {
			continue
		}
		converted := &discordgo.MessageEmbed{
			Title:       embed.Title,
			Description: embed.Description,
			URL:         embed.URL,
			Color:       embed.Color,
		}
		for _, field := range embed.Fields {
			converted.Fields = append(converted.Fields, &discordgo.MessageEmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			})
		}
		if embed.Footer != "" {
			converted.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
		}
		out = append(out, converted)
	}
	return out
}

// GateCustomID builds the button ID for a gate action.
func GateCustomID(gateID string, confirm bool) string {
	action := actionCancel
	if confirm {
		action = actionConfirm
	}
	return gatePrefix + ":" + gateID + ":" + action
}

// ParseGateCustomID splits a button ID built by GateCustomID.
func ParseGateCustomID(customID string) (gateID string, confirm bool, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != gatePrefix || parts[1] == "" {
		return "", false, false
	}
	switch parts[2] {
	case actionConfirm:
		return parts[1], true, true
	case actionCancel:
		return parts[1], false, true
	default:
		return "", false, false
	}
}

// GateComponents renders the confirm/cancel buttons of an open gate.
func GateComponents(prompt *entity.GatePrompt) []discordgo.MessageComponent {
	if prompt == nil {
		return []discordgo.MessageComponent{}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    prompt.ConfirmLabel,
					Style:    discordgo.SuccessButton,
					CustomID: GateCustomID(prompt.GateID, true),
				},
				discordgo.Button{
					Label:    prompt.CancelLabel,
					Style:    discordgo.DangerButton,
					CustomID: GateCustomID(prompt.GateID, false),
				},
			},
		},
	}
}

// ResponseData renders a command reply, including the gate prompt if any.
func ResponseData(resp *entity.CommandResponse) *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Content:    resp.Content,
		Embeds:     responseEmbeds(resp),
		Components: GateComponents(resp.Gate),
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// EditData renders a reply that replaces a deferred message in place.
func EditData(resp *entity.CommandResponse) *discordgo.WebhookEdit {
	content := resp.Content
	embeds := responseEmbeds(resp)
	components := GateComponents(resp.Gate)
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
}

// FollowupData renders a reply sent as a new message after a deferral.
func FollowupData(resp *entity.CommandResponse) *discordgo.WebhookParams {
	params := &discordgo.WebhookParams{
		Content:    resp.Content,
		Embeds:     responseEmbeds(resp),
		Components: GateComponents(resp.Gate),
	}
	if resp.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return params
}

func responseEmbeds(resp *entity.CommandResponse) []*discordgo.MessageEmbed {
	embeds := resp.Embeds
	if resp.Gate != nil && resp.Gate.Embed != nil {
		embeds = append(append([]*entity.Embed(nil), embeds...), resp.Gate.Embed)
	}
	return ToMessageEmbeds(embeds)
}

// OutboundMessage renders a channel message.
func OutboundMessage(msg *entity.OutboundMessage) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: msg.Content,
		Embeds:  ToMessageEmbeds(msg.Embeds),
	}
}
