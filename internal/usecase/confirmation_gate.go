package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/utils"

	"github.com/benbjohnson/clock"
)

// GateOutcome is the resolution of a ConfirmationGate.
type GateOutcome int32

const (
	GateOpen GateOutcome = iota
	GateConfirmed
	GateCancelled
	GateTimedOut
)

func (o GateOutcome) String() string {
	switch o {
	case GateOpen:
		return "open"
	case GateConfirmed:
		return "confirmed"
	case GateCancelled:
		return "cancelled"
	case GateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// GateResult is what the actor sees after resolving a gate. Err carries a
// failure from the confirm callback; the gate stays resolved regardless.
type GateResult struct {
	Outcome  GateOutcome
	Content  string
	Embeds   []*entity.Embed
	FollowUp *ConfirmationGate
	Err      error
}

// ConfirmFunc commits the guarded action.
type ConfirmFunc func(ctx context.Context) (GateResult, error)

// GateCallback runs on cancel and timeout.
type GateCallback func(ctx context.Context, outcome GateOutcome)

// GateConfig is everything needed to build a gate.
type GateConfig struct {
	Prompt        entity.GatePrompt
	OnConfirm     ConfirmFunc
	OnCancel      GateCallback
	Timeout       time.Duration
	AllowedActors []string
	// Subject groups gates belonging to the same flight or announcement so
	// they can be closed together.
	Subject string
}

// ConfirmationGate is a single-use accept/cancel decision with a timeout.
// The resolution flag is assigned exactly once; whichever of Confirm, Cancel
// or the timeout wins it runs its callback, every other attempt gets
// entity.ErrGateResolved.
type ConfirmationGate struct {
	id        string
	config    GateConfig
	allowed   map[string]bool
	outcome   atomic.Int32
	done      chan struct{}
	onTimeout func(g *ConfirmationGate)

	mu    sync.Mutex
	timer *clock.Timer
}

// NewConfirmationGate creates an open gate. Its timeout starts on Open.
func NewConfirmationGate(config GateConfig) *ConfirmationGate {
	gate := &ConfirmationGate{
		id:      utils.NewID(),
		config:  config,
		allowed: make(map[string]bool, len(config.AllowedActors)),
		done:    make(chan struct{}),
	}
	for _, actor := range config.AllowedActors {
		if actor != "" {
			gate.allowed[actor] = true
		}
	}
	gate.config.Prompt.GateID = gate.id
	if gate.config.Prompt.ConfirmLabel == "" {
		gate.config.Prompt.ConfirmLabel = "Confirm"
	}
	if gate.config.Prompt.CancelLabel == "" {
		gate.config.Prompt.CancelLabel = "Cancel"
	}
	return gate
}

// ID identifies the gate in interaction custom IDs.
func (g *ConfirmationGate) ID() string { return g.id }

// Subject returns the grouping key given at construction.
func (g *ConfirmationGate) Subject() string { return g.config.Subject }

// Prompt returns the view rendered with the confirm/cancel controls.
func (g *ConfirmationGate) Prompt() *entity.GatePrompt {
	prompt := g.config.Prompt
	return &prompt
}

// Outcome returns the current resolution.
func (g *ConfirmationGate) Outcome() GateOutcome {
	return GateOutcome(g.outcome.Load())
}

// Done is closed once the gate is resolved.
func (g *ConfirmationGate) Done() <-chan struct{} { return g.done }

// Open starts the timeout. onTimeout runs after the cancel callback when the
// timeout wins, so the caller can release user-facing controls.
func (g *ConfirmationGate) Open(clk clock.Clock, onTimeout func(g *ConfirmationGate)) {
	g.onTimeout = onTimeout
	if g.config.Timeout <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Outcome() != GateOpen {
		return
	}
	g.timer = clk.AfterFunc(g.config.Timeout, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if g.resolve(GateTimedOut) {
			g.runCancel(ctx, GateTimedOut)
			if g.onTimeout != nil {
				g.onTimeout(g)
			}
		}
	})
}

// Confirm resolves the gate as confirmed and runs the confirm callback
// exactly once. Errors from the callback are returned in GateResult.Err.
func (g *ConfirmationGate) Confirm(ctx context.Context, actorID string) (GateResult, error) {
	if err := g.checkActor(actorID); err != nil {
		return GateResult{}, err
	}
	if !g.resolve(GateConfirmed) {
		return GateResult{}, fmt.Errorf("gate %s: %w", g.id, entity.ErrGateResolved)
	}

	result, err := g.config.OnConfirm(ctx)
	result.Outcome = GateConfirmed
	if err != nil {
		result.Err = err
	}
	return result, nil
}

// Cancel resolves the gate as cancelled and runs the cancel callback.
func (g *ConfirmationGate) Cancel(ctx context.Context, actorID string) (GateResult, error) {
	if err := g.checkActor(actorID); err != nil {
		return GateResult{}, err
	}
	if !g.resolve(GateCancelled) {
		return GateResult{}, fmt.Errorf("gate %s: %w", g.id, entity.ErrGateResolved)
	}
	g.runCancel(ctx, GateCancelled)
	return GateResult{Outcome: GateCancelled, Content: "Cancelled."}, nil
}

// Abandon resolves an open gate as cancelled without running any callback.
// Used when the guarded subject went away.
func (g *ConfirmationGate) Abandon() bool {
	return g.resolve(GateCancelled)
}

func (g *ConfirmationGate) checkActor(actorID string) error {
	if len(g.allowed) > 0 && !g.allowed[actorID] {
		return fmt.Errorf("gate %s: %w", g.id, entity.ErrGateForbidden)
	}
	return nil
}

func (g *ConfirmationGate) resolve(outcome GateOutcome) bool {
	if !g.outcome.CompareAndSwap(int32(GateOpen), int32(outcome)) {
		return false
	}
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.mu.Unlock()
	close(g.done)
	return true
}

func (g *ConfirmationGate) runCancel(ctx context.Context, outcome GateOutcome) {
	if g.config.OnCancel != nil {
		g.config.OnCancel(ctx, outcome)
	}
}
