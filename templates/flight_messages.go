package templates

import (
	"fmt"
	"strings"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/utils"
)

const (
	colorNeutral  = 0x2b2d31
	colorBoarding = 0x57f287
	colorStaff    = 0x5865f2
)

// EventName is the scheduled event title, e.g. "Flight LS8800 - LHR to JFK".
func EventName(f *entity.Flight) string {
	return truncate(fmt.Sprintf("Flight %s - %s", f.Code, f.Route), 100)
}

// EventDescription is the scheduled event body.
func EventDescription(f *entity.Flight) string {
	host := f.HostName
	if host == "" {
		host = f.HostID
	}
	return truncate(fmt.Sprintf("Aircraft: %s\nHost: %s", f.Aircraft, host), 1000)
}

// FlightCard summarises a flight for the host confirmation prompt and the
// confirmation reply.
func FlightCard(f *entity.Flight, title string) *entity.Embed {
	embed := &entity.Embed{
		Title: title,
		Color: colorNeutral,
		Fields: []entity.EmbedField{
			{Name: "Route", Value: f.Route},
			{Name: "Aircraft", Value: f.Aircraft},
			{Name: "Flight Code", Value: f.Code},
			{Name: "Host", Value: mention(f.HostID)},
			{Name: "Departure", Value: discordTimestamp(f.StartTime)},
		},
		Footer: "ID: " + utils.ShortID(f.ID),
	}
	if f.PlatformEventRef != nil && f.PlatformEventRef.URL != "" {
		embed.Fields = append(embed.Fields, entity.EmbedField{
			Name:  "Event",
			Value: fmt.Sprintf("[Click here to view the event](%s)", f.PlatformEventRef.URL),
		})
	}
	return embed
}

// HostConfirmationPrompt is the text shown above the confirm/cancel buttons.
func HostConfirmationPrompt(f *entity.Flight) string {
	return fmt.Sprintf("%s, please confirm you will host flight **%s** so the event can be published.", mention(f.HostID), f.Code)
}

// StaffConfirmationPrompt asks whether to announce the flight to staff.
func StaffConfirmationPrompt(f *entity.Flight) string {
	return fmt.Sprintf("Flight **%s** is scheduled. Announce it to staff for attendance?", f.Code)
}

// StaffAnnouncement is posted in the staff channel; reactions collect
// attendance signals.
func StaffAnnouncement(f *entity.Flight, reactions []string) *entity.OutboundMessage {
	var legend []string
	labels := []string{"attending", "maybe", "not attending"}
	for i, reaction := range reactions {
		label := "option"
		if i < len(labels) {
			label = labels[i]
		}
		legend = append(legend, fmt.Sprintf("%s %s", reaction, label))
	}

	embed := &entity.Embed{
		Title:       fmt.Sprintf("Staff call: Flight %s", f.Code),
		Description: "React below to let the host know whether you can staff this flight.",
		Color:       colorStaff,
		Fields: []entity.EmbedField{
			{Name: "Route", Value: f.Route, Inline: true},
			{Name: "Aircraft", Value: f.Aircraft, Inline: true},
			{Name: "Host", Value: mention(f.HostID), Inline: true},
			{Name: "Departure", Value: discordTimestamp(f.StartTime)},
		},
	}
	if f.PlatformEventRef != nil && f.PlatformEventRef.URL != "" {
		embed.URL = f.PlatformEventRef.URL
		embed.Fields = append(embed.Fields, entity.EmbedField{Name: "Event", Value: f.PlatformEventRef.URL})
	}
	if len(legend) > 0 {
		embed.Footer = strings.Join(legend, " | ")
	}

	return &entity.OutboundMessage{Embeds: []*entity.Embed{embed}}
}

// BoardingAnnouncement is the public "now boarding" message for flight_host.
func BoardingAnnouncement(f *entity.Flight, route, aircraft string) *entity.OutboundMessage {
	if strings.TrimSpace(route) == "" {
		route = f.Route
	}
	if strings.TrimSpace(aircraft) == "" {
		aircraft = f.Aircraft
	}

	embed := &entity.Embed{
		Title:       fmt.Sprintf("Flight %s is now boarding", f.Code),
		Description: fmt.Sprintf("%s is hosting today's flight. Join the event and head to the gate!", mention(f.HostID)),
		Color:       colorBoarding,
		Fields: []entity.EmbedField{
			{Name: "Route", Value: route, Inline: true},
			{Name: "Aircraft", Value: aircraft, Inline: true},
			{Name: "Departure", Value: discordTimestamp(f.StartTime)},
		},
	}
	if f.PlatformEventRef != nil && f.PlatformEventRef.URL != "" {
		embed.URL = f.PlatformEventRef.URL
	}

	return &entity.OutboundMessage{
		Content: "@here",
		Embeds:  []*entity.Embed{embed},
	}
}

// ReminderMessage is the direct message sent to the host before departure.
func ReminderMessage(f *entity.Flight, lead time.Duration) string {
	return fmt.Sprintf("Reminder: you are hosting flight %s (%s, %s) in %d minutes, starting %s.",
		f.Code, f.Route, f.Aircraft, int(lead.Minutes()), discordTimestamp(f.StartTime))
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func discordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:F>", t.Unix())
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
