package usecase

import (
	"context"
	"fmt"

	"flightops-bot/internal/domain/entity"
)

// commandHandler matches a single command name.
type commandHandler struct {
	name       string
	capability entity.Capability
}

// CanHandle checks if this handler serves the command
func (h commandHandler) CanHandle(name string) bool {
	return name == h.name
}

// RequiredCapability returns the capability checked before Handle
func (h commandHandler) RequiredCapability() entity.Capability {
	return h.capability
}

// FlightCreateHandler serves flight_create.
type FlightCreateHandler struct {
	commandHandler
	controller *FlightController
}

// NewFlightCreateHandler creates a new flight_create handler
func NewFlightCreateHandler(controller *FlightController) *FlightCreateHandler {
	return &FlightCreateHandler{
		commandHandler: commandHandler{name: entity.CommandFlightCreate, capability: entity.CapabilityScheduleFlights},
		controller:     controller,
	}
}

// Handle creates the Draft flight and opens the host gate
func (h *FlightCreateHandler) Handle(ctx context.Context, req *entity.CommandRequest) (*entity.CommandResponse, error) {
	hostID := req.Option(entity.OptionHost)
	hostName := req.Users[hostID]
	if hostID == "" {
		hostID = req.ActorID
		hostName = req.ActorName
	}

	flight, err := h.controller.CreateFlight(ctx, entity.CreateFlightRequest{
		Code:      req.Option(entity.OptionFlightCode),
		Route:     req.Option(entity.OptionRoute),
		Aircraft:  req.Option(entity.OptionAircraft),
		Date:      req.Option(entity.OptionDate),
		Time:      req.Option(entity.OptionTime),
		HostID:    hostID,
		HostName:  hostName,
		CreatorID: req.ActorID,
		GuildID:   req.GuildID,
	})
	if err != nil {
		return nil, err
	}

	gate, err := h.controller.RequestHostConfirmation(ctx, flight)
	if err != nil {
		return nil, err
	}

	prompt := gate.Prompt()
	return &entity.CommandResponse{
		Content: prompt.Content,
		Gate:    prompt,
	}, nil
}

// FlightHostHandler serves flight_host.
type FlightHostHandler struct {
	commandHandler
	controller *FlightController
}

// NewFlightHostHandler creates a new flight_host handler
func NewFlightHostHandler(controller *FlightController) *FlightHostHandler {
	return &FlightHostHandler{
		commandHandler: commandHandler{name: entity.CommandFlightHost, capability: entity.CapabilityScheduleFlights},
		controller:     controller,
	}
}

// Handle sends the boarding announcement. The reply is public.
func (h *FlightHostHandler) Handle(ctx context.Context, req *entity.CommandRequest) (*entity.CommandResponse, error) {
	result, err := h.controller.HostFlight(ctx, HostFlightRequest{
		Code:     req.Option(entity.OptionFlightCode),
		Route:    req.Option(entity.OptionRoute),
		Aircraft: req.Option(entity.OptionAircraft),
		ActorID:  req.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if result.Posted {
		return &entity.CommandResponse{
			Content: fmt.Sprintf("Flight **%s** is now boarding.", result.Flight.Code),
		}, nil
	}
	return &entity.CommandResponse{
		Content: result.Message.Content,
		Embeds:  result.Message.Embeds,
	}, nil
}

// FlightCancelHandler serves flight_cancel.
type FlightCancelHandler struct {
	commandHandler
	controller *FlightController
}

// NewFlightCancelHandler creates a new flight_cancel handler
func NewFlightCancelHandler(controller *FlightController) *FlightCancelHandler {
	return &FlightCancelHandler{
		commandHandler: commandHandler{name: entity.CommandFlightCancel, capability: entity.CapabilityScheduleFlights},
		controller:     controller,
	}
}

// Handle cancels the flight
func (h *FlightCancelHandler) Handle(ctx context.Context, req *entity.CommandRequest) (*entity.CommandResponse, error) {
	flight, err := h.controller.CancelFlight(ctx, req.Option(entity.OptionFlightCode), req.ActorID)
	if err != nil {
		return nil, err
	}
	return &entity.CommandResponse{
		Content: fmt.Sprintf("Flight **%s** has been cancelled.", flight.Code),
	}, nil
}

// AffiliateAnnounceHandler serves affiliate_announce.
type AffiliateAnnounceHandler struct {
	commandHandler
	controller *AffiliateController
}

// NewAffiliateAnnounceHandler creates a new affiliate_announce handler
func NewAffiliateAnnounceHandler(controller *AffiliateController) *AffiliateAnnounceHandler {
	return &AffiliateAnnounceHandler{
		commandHandler: commandHandler{name: entity.CommandAffiliateAnnounce, capability: entity.CapabilityAffiliate},
		controller:     controller,
	}
}

// Handle validates the announcement and opens its gate. Only the invoker
// sees the preview.
func (h *AffiliateAnnounceHandler) Handle(ctx context.Context, req *entity.CommandRequest) (*entity.CommandResponse, error) {
	gate, err := h.controller.RequestAnnouncement(ctx, AffiliateRequest{
		Name:        req.Option(entity.OptionName),
		Description: req.Option(entity.OptionDescription),
		Link:        req.Option(entity.OptionLink),
		EmbedJSON:   req.Option(entity.OptionEmbedJSON),
		RequestedBy: req.ActorID,
		GuildID:     req.GuildID,
	})
	if err != nil {
		return nil, err
	}

	prompt := gate.Prompt()
	return &entity.CommandResponse{
		Content:   prompt.Content,
		Ephemeral: true,
		Gate:      prompt,
	}, nil
}
