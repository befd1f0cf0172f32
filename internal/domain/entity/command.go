package entity

// CommandRequest is a slash command invocation, already decoded from the
// platform's wire format.
type CommandRequest struct {
	Name      string
	GuildID   string
	ChannelID string
	ActorID   string
	ActorName string
	Options   map[string]string
	// Users resolves user-typed options to display names.
	Users map[string]string
}

// Option returns the named option value, or "" when absent.
func (r *CommandRequest) Option(name string) string {
	if r.Options == nil {
		return ""
	}
	return r.Options[name]
}

// GatePrompt is the view of an open confirmation gate: text plus the
// confirm/cancel controls identified by GateID.
type GatePrompt struct {
	GateID       string
	Content      string
	Embed        *Embed
	ConfirmLabel string
	CancelLabel  string
}

// CommandResponse is the single reply to an interaction. Ephemeral replies
// are visible only to the invoker.
type CommandResponse struct {
	Content   string
	Embeds    []*Embed
	Ephemeral bool
	Gate      *GatePrompt
}

// ErrorResponse builds the invoker-only reply for err.
func ErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Content:   UserMessage(err),
		Ephemeral: true,
	}
}

// Command names.
const (
	CommandFlightCreate      = "flight_create"
	CommandFlightHost        = "flight_host"
	CommandFlightCancel      = "flight_cancel"
	CommandAffiliateAnnounce = "affiliate_announce"
)

// Command option names.
const (
	OptionFlightCode  = "flight_code"
	OptionRoute       = "route"
	OptionAircraft    = "aircraft"
	OptionDate        = "date"
	OptionTime        = "time"
	OptionHost        = "host"
	OptionName        = "name"
	OptionDescription = "description"
	OptionLink        = "link"
	OptionEmbedJSON   = "embed_json"
)
