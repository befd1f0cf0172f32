package router

import (
	"fmt"

	"flightops-bot/internal/usecase"
	"flightops-bot/pkg/logger"
)

// CommandRouter routes slash commands to handlers by name
type CommandRouter struct {
	handlers []usecase.CommandHandler
	logger   logger.Logger
}

// NewCommandRouter creates a new command router
func NewCommandRouter(logger logger.Logger) *CommandRouter {
	return &CommandRouter{
		handlers: make([]usecase.CommandHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler
func (r *CommandRouter) Register(handler usecase.CommandHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the first handler serving name, or nil
func (r *CommandRouter) GetHandler(name string) usecase.CommandHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(name) {
			return handler
		}
	}
	return nil
}
