package persistence

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"flightops-bot/pkg/logger"
)

// NewNatsConnection connects to the lifecycle event bus. Reconnects are
// unlimited; connection state changes are logged.
func NewNatsConnection(url, name string, log logger.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}
