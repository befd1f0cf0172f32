package templates

import (
	"fmt"

	"flightops-bot/internal/domain/entity"
)

const colorAffiliate = 0xeb459e

// AffiliatePrompt is the confirmation text shown before posting.
func AffiliatePrompt(a *entity.AffiliateAnnouncement) string {
	return fmt.Sprintf("Post the affiliate announcement for **%s**?", a.Name)
}

// AffiliateAnnouncement renders the partner announcement. A validated custom
// embed replaces the default card.
func AffiliateAnnouncement(a *entity.AffiliateAnnouncement) *entity.OutboundMessage {
	if a.Embed != nil {
		return &entity.OutboundMessage{Embeds: []*entity.Embed{a.Embed}}
	}

	embed := &entity.Embed{
		Title:       fmt.Sprintf("New affiliate: %s", a.Name),
		Description: a.Description,
		Color:       colorAffiliate,
	}
	if a.Link != "" {
		embed.URL = a.Link
		embed.Fields = []entity.EmbedField{{Name: "Join", Value: a.Link}}
	}
	return &entity.OutboundMessage{Embeds: []*entity.Embed{embed}}
}
