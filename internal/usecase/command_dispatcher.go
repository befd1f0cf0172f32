package usecase

import (
	"context"
	"fmt"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"
)

// Authorizer answers capability checks for the dispatcher.
type Authorizer interface {
	Authorize(ctx context.Context, actorID, guildID string, capability entity.Capability) bool
}

// CommandDispatcher is the command boundary: it authorizes, routes, and turns
// every outcome into exactly one reply.
type CommandDispatcher struct {
	router     CommandRouter
	authorizer Authorizer
	gates      *GateRegistry
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewCommandDispatcher creates a new command dispatcher
func NewCommandDispatcher(
	router CommandRouter,
	authorizer Authorizer,
	gates *GateRegistry,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *CommandDispatcher {
	return &CommandDispatcher{
		router:     router,
		authorizer: authorizer,
		gates:      gates,
		logger:     logger,
		metrics:    metrics,
	}
}

// Dispatch handles one slash command. Errors never escape: they become an
// invoker-only reply.
func (d *CommandDispatcher) Dispatch(ctx context.Context, req *entity.CommandRequest) *entity.CommandResponse {
	start := time.Now()
	defer func() {
		d.metrics.CommandDuration.WithLabelValues(req.Name).Observe(time.Since(start).Seconds())
	}()

	handler := d.router.GetHandler(req.Name)
	if handler == nil {
		d.logger.Debug("No handler found for command", "command", req.Name)
		d.metrics.Commands.WithLabelValues(req.Name, "unknown").Inc()
		return &entity.CommandResponse{Content: "Unknown command.", Ephemeral: true}
	}

	handlerType := fmt.Sprintf("%T", handler)
	if !d.authorizer.Authorize(ctx, req.ActorID, req.GuildID, handler.RequiredCapability()) {
		d.logger.Info("Command denied",
			"command", req.Name,
			"actorID", req.ActorID,
			"guildID", req.GuildID)
		d.metrics.Commands.WithLabelValues(req.Name, "denied").Inc()
		return entity.ErrorResponse(entity.ErrNotAuthorized)
	}

	d.logger.Info("Handling command",
		"command", req.Name,
		"handler", handlerType,
		"actorID", req.ActorID)

	resp, err := handler.Handle(ctx, req)
	if err != nil {
		d.logger.Warn("Command failed",
			"command", req.Name,
			"handler", handlerType,
			"actorID", req.ActorID,
			"error", err)
		d.metrics.Commands.WithLabelValues(req.Name, "error").Inc()
		return entity.ErrorResponse(err)
	}

	d.metrics.Commands.WithLabelValues(req.Name, "ok").Inc()
	return resp
}

// ResolveGate applies a confirm/cancel press. Rejections come back ephemeral;
// otherwise the reply replaces the gate's message.
func (d *CommandDispatcher) ResolveGate(ctx context.Context, gateID, actorID string, confirm bool) *entity.CommandResponse {
	result, err := d.gates.Resolve(ctx, gateID, actorID, confirm)
	if err != nil {
		d.logger.Info("Gate interaction rejected",
			"gateID", gateID,
			"actorID", actorID,
			"error", err)
		return entity.ErrorResponse(err)
	}

	resp := &entity.CommandResponse{
		Content: result.Content,
		Embeds:  result.Embeds,
	}
	if result.Err != nil {
		d.logger.Warn("Confirmed action failed",
			"gateID", gateID,
			"actorID", actorID,
			"error", result.Err)
		resp.Content = entity.UserMessage(result.Err)
	}
	if result.FollowUp != nil {
		resp.Gate = result.FollowUp.Prompt()
		if resp.Content == "" {
			resp.Content = resp.Gate.Content
		} else if resp.Gate.Content != "" && resp.Gate.Content != resp.Content {
			resp.Content += "\n" + resp.Gate.Content
		}
	}
	return resp
}
