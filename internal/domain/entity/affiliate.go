package entity

// AffiliateAnnouncement is a partner server announcement awaiting staff
// confirmation before it is posted.
type AffiliateAnnouncement struct {
	ID          string
	Name        string
	Description string
	Link        string
	Embed       *Embed
	RequestedBy string
	GuildID     string
}
