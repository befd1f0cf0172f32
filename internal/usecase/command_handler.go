package usecase

import (
	"context"

	"flightops-bot/internal/domain/entity"
)

// CommandHandler defines the interface for slash command handlers
type CommandHandler interface {
	// CanHandle determines if this handler serves the given command name
	CanHandle(name string) bool

	// RequiredCapability is checked by the dispatcher before Handle runs
	RequiredCapability() entity.Capability

	// Handle runs the command and returns the single reply
	Handle(ctx context.Context, req *entity.CommandRequest) (*entity.CommandResponse, error)
}

// CommandRouter routes commands to the appropriate handler by name
type CommandRouter interface {
	// Register registers a handler
	Register(handler CommandHandler)

	// GetHandler returns the handler for a command name, or nil
	GetHandler(name string) CommandHandler
}
