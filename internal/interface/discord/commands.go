package discord

import (
	"github.com/bwmarrin/discordgo"

	"flightops-bot/internal/domain/entity"
)

// Commands is the slash command table registered with the guild. The
// gateway decodes options by the same names.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        entity.CommandFlightCreate,
			Description: "Create a flight event",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(entity.OptionRoute, "Route, e.g. LHR to JFK", true),
				stringOption(entity.OptionDate, "Date (DD/MM/YYYY)", true),
				stringOption(entity.OptionTime, "Departure time (HH:MM, 24-hour)", true),
				stringOption(entity.OptionAircraft, "Aircraft type", true),
				stringOption(entity.OptionFlightCode, "Flight code, e.g. LS8800", true),
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        entity.OptionHost,
					Description: "Host of the flight (defaults to you)",
				},
			},
		},
		{
			Name:        entity.CommandFlightHost,
			Description: "Announce boarding for a scheduled flight",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(entity.OptionFlightCode, "Flight code", true),
				stringOption(entity.OptionRoute, "Route shown in the announcement", false),
				stringOption(entity.OptionAircraft, "Aircraft shown in the announcement", false),
			},
		},
		{
			Name:        entity.CommandFlightCancel,
			Description: "Cancel a flight",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(entity.OptionFlightCode, "Flight code", true),
			},
		},
		{
			Name:        entity.CommandAffiliateAnnounce,
			Description: "Post an affiliate announcement",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(entity.OptionName, "Affiliate name", true),
				stringOption(entity.OptionDescription, "Short description", false),
				stringOption(entity.OptionLink, "Invite link", false),
				stringOption(entity.OptionEmbedJSON, "Custom embed as JSON", false),
			},
		},
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}
