package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"

	"github.com/benbjohnson/clock"
)

// TimeoutNotifier releases user-facing controls of a gate that timed out.
type TimeoutNotifier func(ctx context.Context, gate *ConfirmationGate)

// GateRegistry indexes open gates by ID so button presses can find them.
type GateRegistry struct {
	clock   clock.Clock
	logger  logger.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	gates     map[string]*ConfirmationGate
	onTimeout TimeoutNotifier
}

// NewGateRegistry creates an empty registry
func NewGateRegistry(clk clock.Clock, logger logger.Logger, metrics *metrics.Metrics) *GateRegistry {
	return &GateRegistry{
		clock:   clk,
		logger:  logger,
		metrics: metrics,
		gates:   make(map[string]*ConfirmationGate),
	}
}

// SetTimeoutNotifier installs the hook run after a gate times out.
func (r *GateRegistry) SetTimeoutNotifier(notifier TimeoutNotifier) {
	r.mu.Lock()
	r.onTimeout = notifier
	r.mu.Unlock()
}

// Open registers gate and starts its timeout.
func (r *GateRegistry) Open(gate *ConfirmationGate) {
	r.mu.Lock()
	r.gates[gate.ID()] = gate
	r.mu.Unlock()

	gate.Open(r.clock, func(g *ConfirmationGate) {
		r.remove(g.ID())
		r.record(g, GateTimedOut)
		r.logger.Info("Confirmation gate timed out", "gateID", g.ID(), "subject", g.Subject())

		r.mu.Lock()
		notify := r.onTimeout
		r.mu.Unlock()
		if notify != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			notify(ctx, g)
		}
	})
	r.logger.Debug("Confirmation gate opened", "gateID", gate.ID(), "subject", gate.Subject())
}

// Resolve applies a button press to the gate with id. Unknown IDs are
// reported as already resolved: the gate finished or expired. A follow-up
// gate in the result has already been opened by whoever built it.
func (r *GateRegistry) Resolve(ctx context.Context, id string, actorID string, confirm bool) (GateResult, error) {
	r.mu.Lock()
	gate, ok := r.gates[id]
	r.mu.Unlock()
	if !ok {
		return GateResult{}, fmt.Errorf("gate %s: %w", id, entity.ErrGateResolved)
	}

	var (
		result GateResult
		err    error
	)
	if confirm {
		result, err = gate.Confirm(ctx, actorID)
	} else {
		result, err = gate.Cancel(ctx, actorID)
	}
	if err != nil {
		return result, err
	}

	r.remove(id)
	r.record(gate, result.Outcome)
	r.logger.Info("Confirmation gate resolved",
		"gateID", id,
		"subject", gate.Subject(),
		"outcome", result.Outcome.String(),
		"actorID", actorID)

	return result, nil
}

// CloseSubject abandons every open gate for subject. Their callbacks never run.
func (r *GateRegistry) CloseSubject(subject string) int {
	r.mu.Lock()
	var matched []*ConfirmationGate
	for id, gate := range r.gates {
		if gate.Subject() == subject {
			matched = append(matched, gate)
			delete(r.gates, id)
		}
	}
	r.mu.Unlock()

	closed := 0
	for _, gate := range matched {
		if gate.Abandon() {
			closed++
			r.record(gate, GateCancelled)
		}
	}
	return closed
}

// Get returns the open gate with id.
func (r *GateRegistry) Get(id string) (*ConfirmationGate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gate, ok := r.gates[id]
	return gate, ok
}

// Len returns the number of open gates.
func (r *GateRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gates)
}

func (r *GateRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.gates, id)
	r.mu.Unlock()
}

func (r *GateRegistry) record(_ *ConfirmationGate, outcome GateOutcome) {
	r.metrics.GateResolutions.WithLabelValues(outcome.String()).Inc()
}
