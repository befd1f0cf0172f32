package discord

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/usecase"
	"flightops-bot/pkg/logger"
)

type fakeResponder struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
}

func (r *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
	return nil
}

func (r *fakeResponder) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, edit)
	return &discordgo.Message{}, nil
}

func (r *fakeResponder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followups = append(r.followups, data)
	return &discordgo.Message{}, nil
}

func (r *fakeResponder) responseCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.responses)
}

type fakeDispatcher struct {
	onResolve func()
	command  *entity.CommandResponse
	gate     *entity.CommandResponse
	requests []*entity.CommandRequest
	presses  []string
}

func (d *fakeDispatcher) Dispatch(_ context.Context, req *entity.CommandRequest) *entity.CommandResponse {
	d.requests = append(d.requests, req)
	return d.command
}

func (d *fakeDispatcher) ResolveGate(_ context.Context, gateID, actorID string, confirm bool) *entity.CommandResponse {
	d.presses = append(d.presses, GateCustomID(gateID, confirm)+"@"+actorID)
	if d.onResolve != nil {
		d.onResolve()
	}
	return d.gate
}

func commandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "guild",
		ChannelID: "channel",
		Member: &discordgo.Member{
			Nick: "Dispatcher",
			User: &discordgo.User{ID: "creator", Username: "creator"},
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{
					"host": {ID: "host", Username: "host_user", GlobalName: "Captain Host"},
				},
			},
		},
	}
}

func componentInteraction(customID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "guild",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "host"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}

func TestDecodeCommand(t *testing.T) {
	interaction := commandInteraction(entity.CommandFlightCreate,
		&discordgo.ApplicationCommandInteractionDataOption{Name: entity.OptionFlightCode, Type: discordgo.ApplicationCommandOptionString, Value: "LS8800"},
		&discordgo.ApplicationCommandInteractionDataOption{Name: entity.OptionHost, Type: discordgo.ApplicationCommandOptionUser, Value: "host"},
		&discordgo.ApplicationCommandInteractionDataOption{Name: "seats", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(12)},
	)

	req := DecodeCommand(interaction)
	if req.Name != entity.CommandFlightCreate || req.GuildID != "guild" || req.ActorID != "creator" || req.ActorName != "Dispatcher" {
		t.Errorf("request = %+v", req)
	}
	if req.Option(entity.OptionFlightCode) != "LS8800" || req.Option(entity.OptionHost) != "host" {
		t.Errorf("options = %v", req.Options)
	}
	if req.Users["host"] != "Captain Host" {
		t.Errorf("resolved host name = %q", req.Users["host"])
	}
	if req.Option("seats") != "12" {
		t.Errorf("seats = %q, want 12", req.Option("seats"))
	}
}

func TestGatewayCommandWithGate(t *testing.T) {
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{command: &entity.CommandResponse{
		Content: "Please confirm",
		Gate:    &entity.GatePrompt{GateID: "g1", ConfirmLabel: "Confirm", CancelLabel: "Cancel"},
	}}
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), commandInteraction(entity.CommandFlightCreate))

	if len(responder.responses) != 1 {
		t.Fatalf("sent %d responses, want 1", len(responder.responses))
	}
	resp := responder.responses[0]
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource || len(resp.Data.Components) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestGatewayComponentPress(t *testing.T) {
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{gate: &entity.CommandResponse{Content: "Flight **LS8800** is scheduled."}}
	acknowledged := false
	dispatcher.onResolve = func() { acknowledged = responder.responseCount() == 1 }
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), componentInteraction(GateCustomID("g1", true)))

	if len(dispatcher.presses) != 1 || dispatcher.presses[0] != "gate:g1:confirm@host" {
		t.Fatalf("presses = %v", dispatcher.presses)
	}
	if !acknowledged {
		t.Error("press resolved before it was acknowledged")
	}
	if len(responder.responses) != 1 || responder.responses[0].Type != discordgo.InteractionResponseDeferredMessageUpdate {
		t.Fatalf("responses = %+v, want one deferred update", responder.responses)
	}
	if len(responder.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(responder.edits))
	}
	edit := responder.edits[0]
	if *edit.Content != "Flight **LS8800** is scheduled." {
		t.Errorf("content = %q", *edit.Content)
	}
	if len(*edit.Components) != 0 {
		t.Errorf("components = %v, want an empty list clearing the buttons", *edit.Components)
	}
}

func TestGatewayComponentPressWithFollowUpGate(t *testing.T) {
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{gate: &entity.CommandResponse{
		Content: "Announce to staff?",
		Gate:    &entity.GatePrompt{GateID: "g2", ConfirmLabel: "Announce", CancelLabel: "Skip"},
	}}
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), componentInteraction(GateCustomID("g1", true)))

	if components := *responder.edits[0].Components; len(components) != 1 {
		t.Fatalf("components = %v, want the follow-up buttons", components)
	}
	if gateway.untrack("g2") == nil {
		t.Error("follow-up gate not tracked for timeout release")
	}
}

func TestGatewayRejectedPressIsEphemeral(t *testing.T) {
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{gate: entity.ErrorResponse(entity.ErrGateForbidden)}
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), componentInteraction(GateCustomID("g1", false)))

	if len(responder.followups) != 1 || responder.followups[0].Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("followups = %+v, want one ephemeral message", responder.followups)
	}
	if len(responder.edits) != 0 {
		t.Error("gate message edited after a rejected press")
	}
}

func TestGatewayIgnoresForeignComponents(t *testing.T) {
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{}
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), componentInteraction("poll:42:yes"))

	if len(dispatcher.presses) != 0 || len(responder.responses) != 0 {
		t.Error("foreign component was handled")
	}
}

func TestGatewayReleaseTimedOutGate(t *testing.T) {
	gate := usecase.NewConfirmationGate(usecase.GateConfig{})
	responder := &fakeResponder{}
	dispatcher := &fakeDispatcher{command: &entity.CommandResponse{Content: "confirm?", Gate: gate.Prompt()}}
	gateway := NewGateway(responder, dispatcher, logger.NewNopLogger())

	gateway.HandleInteraction(context.Background(), commandInteraction(entity.CommandFlightCreate))
	gateway.ReleaseGate(context.Background(), gate)

	if len(responder.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(responder.edits))
	}
	edit := responder.edits[0]
	if *edit.Content != gateTimedOutText || len(*edit.Components) != 0 {
		t.Errorf("edit = %+v", edit)
	}

	gateway.ReleaseGate(context.Background(), gate)
	if len(responder.edits) != 1 {
		t.Error("gate released twice")
	}
}
