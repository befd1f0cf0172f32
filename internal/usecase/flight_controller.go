package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"
	"flightops-bot/pkg/utils"
	"flightops-bot/templates"

	"github.com/benbjohnson/clock"
)

const (
	schedulerReminder = "reminder"
	schedulerClosure  = "closure"

	eventLocation = "Online"
)

var defaultStaffReactions = []string{"✅", "❔", "❌"}

// FlightControllerConfig holds the controller's tunables.
type FlightControllerConfig struct {
	StaffChannelID    string
	BoardingChannelID string
	StaffReactions    []string
	ReminderLead      time.Duration
	GateTimeout       time.Duration
	Location          *time.Location
}

// HostFlightRequest carries the flight_host options. Route and aircraft
// override the stored values in the announcement only.
type HostFlightRequest struct {
	Code     string
	Route    string
	Aircraft string
	ActorID  string
}

// HostFlightResult is the boarding announcement produced by HostFlight.
type HostFlightResult struct {
	Flight  entity.Flight
	Message *entity.OutboundMessage
	// Posted is true when the announcement went to the boarding channel;
	// otherwise the caller broadcasts Message as its reply.
	Posted bool
}

// FlightController owns the flight lifecycle. It is the only writer of the
// flight store; gates and schedulers act on flights through it.
type FlightController struct {
	store     *FlightStore
	platform  repository.PlatformRepository
	audit     repository.FlightAuditRepository
	publisher repository.FlightEventPublisher
	gates     *GateRegistry
	reminders *ReminderScheduler
	closures  *ReminderScheduler
	clock     clock.Clock
	config    FlightControllerConfig
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewFlightController creates a new flight controller
func NewFlightController(
	platform repository.PlatformRepository,
	audit repository.FlightAuditRepository,
	publisher repository.FlightEventPublisher,
	gates *GateRegistry,
	clk clock.Clock,
	config FlightControllerConfig,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *FlightController {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if len(config.StaffReactions) == 0 {
		config.StaffReactions = defaultStaffReactions
	}

	c := &FlightController{
		store:     NewFlightStore(),
		platform:  platform,
		audit:     audit,
		publisher: publisher,
		gates:     gates,
		clock:     clk,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
	c.reminders = NewReminderScheduler(schedulerReminder, clk, c.deliverReminder, logger, metrics)
	c.closures = NewReminderScheduler(schedulerClosure, clk, c.closeOnSchedule, logger, metrics)
	return c
}

// CreateFlight validates req and stores a Draft flight. No platform call is
// made.
func (c *FlightController) CreateFlight(ctx context.Context, req entity.CreateFlightRequest) (entity.Flight, error) {
	code := entity.NormalizeFlightCode(req.Code)
	if code == "" {
		return entity.Flight{}, entity.NewValidationError("flight_code", "is required")
	}
	if strings.TrimSpace(req.Route) == "" {
		return entity.Flight{}, entity.NewValidationError("route", "is required")
	}
	if strings.TrimSpace(req.Aircraft) == "" {
		return entity.Flight{}, entity.NewValidationError("aircraft", "is required")
	}

	schedule, err := utils.ParseFlightSchedule(req.Date, req.Time, c.config.Location)
	if err != nil {
		return entity.Flight{}, err
	}

	hostID := req.HostID
	hostName := req.HostName
	if hostID == "" {
		hostID = req.CreatorID
	}

	now := c.clock.Now()
	flight := entity.Flight{
		ID:        utils.NewID(),
		Code:      code,
		Route:     strings.TrimSpace(req.Route),
		Aircraft:  strings.TrimSpace(req.Aircraft),
		StartTime: schedule.StartTime,
		EndTime:   schedule.EndTime,
		HostID:    hostID,
		HostName:  hostName,
		CreatorID: req.CreatorID,
		GuildID:   req.GuildID,
		State:     entity.StateDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.closeIfEnded(ctx, code)
	if err := c.store.Insert(flight); err != nil {
		c.logger.Info("Rejected duplicate flight code", "flightCode", code, "actorID", req.CreatorID)
		return entity.Flight{}, err
	}

	c.metrics.FlightsCreated.Inc()
	c.record(ctx, nil, flight, req.CreatorID, "created")

	if !schedule.StartTime.After(now) {
		c.logger.Info("Flight created with a start time in the past",
			"flightCode", code,
			"flightID", flight.ID,
			"startTime", schedule.StartTime)
	}
	c.closures.Schedule(entity.ReminderTask{
		Key:      code,
		FlightID: flight.ID,
		FireAt:   flight.EndTime,
	})

	return flight, nil
}

// RequestHostConfirmation moves a Draft flight to PendingHostConfirmation and
// opens the host gate guarding MaterializeEvent.
func (c *FlightController) RequestHostConfirmation(ctx context.Context, flight entity.Flight) (*ConfirmationGate, error) {
	updated, prev, err := c.store.Transition(flight.Code, flight.ID, func(f *entity.Flight) error {
		if f.State != entity.StateDraft {
			return fmt.Errorf("flight %s in state %s: %w", f.Code, f.State, entity.ErrInvalidTransition)
		}
		f.State = entity.StatePendingHostConfirmation
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.record(ctx, &prev, updated, flight.CreatorID, "host confirmation requested")

	return c.openHostGate(updated, templates.HostConfirmationPrompt(&updated), "Confirm"), nil
}

func (c *FlightController) openHostGate(flight entity.Flight, content, confirmLabel string) *ConfirmationGate {
	gate := NewConfirmationGate(GateConfig{
		Prompt: entity.GatePrompt{
			Content:      content,
			Embed:        templates.FlightCard(&flight, "Flight created"),
			ConfirmLabel: confirmLabel,
			CancelLabel:  "Cancel",
		},
		OnConfirm: func(ctx context.Context) (GateResult, error) {
			return c.confirmHost(ctx, flight)
		},
		OnCancel: func(ctx context.Context, outcome GateOutcome) {
			c.cancelFromHostGate(ctx, flight, outcome)
		},
		Timeout:       c.config.GateTimeout,
		AllowedActors: []string{flight.HostID, flight.CreatorID},
		Subject:       flight.ID,
	})
	c.gates.Open(gate)
	return gate
}

func (c *FlightController) confirmHost(ctx context.Context, flight entity.Flight) (GateResult, error) {
	scheduled, err := c.MaterializeEvent(ctx, flight)
	if err != nil {
		var platformErr *entity.PlatformError
		if errors.As(err, &platformErr) {
			// The flight is still pending; let the host try again.
			current, ok := c.store.Get(flight.Code)
			if ok && current.ID == flight.ID && current.State == entity.StatePendingHostConfirmation {
				retry := c.openHostGate(current, entity.UserMessage(err), "Retry")
				return GateResult{FollowUp: retry}, err
			}
		}
		return GateResult{}, err
	}

	result := GateResult{
		Content: fmt.Sprintf("Flight **%s** is scheduled.", scheduled.Code),
		Embeds:  []*entity.Embed{templates.FlightCard(&scheduled, "Flight scheduled")},
	}
	if c.config.StaffChannelID != "" {
		staffGate, err := c.RequestStaffAnnouncement(ctx, scheduled)
		if err != nil {
			c.logger.Warn("Failed to open staff announcement gate",
				"flightCode", scheduled.Code,
				"error", err)
		} else {
			result.FollowUp = staffGate
		}
	}
	return result, nil
}

func (c *FlightController) cancelFromHostGate(ctx context.Context, flight entity.Flight, outcome GateOutcome) {
	updated, prev, err := c.store.Transition(flight.Code, flight.ID, func(f *entity.Flight) error {
		if f.State != entity.StatePendingHostConfirmation {
			return fmt.Errorf("flight %s in state %s: %w", f.Code, f.State, entity.ErrInvalidTransition)
		}
		f.State = entity.StateCancelled
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		c.logger.Debug("Host gate cancel had nothing to cancel",
			"flightCode", flight.Code,
			"flightID", flight.ID,
			"error", err)
		return
	}

	c.closures.CancelFor(updated.Code, updated.ID)
	c.record(ctx, &prev, updated, "", "host gate "+outcome.String())
}

// MaterializeEvent creates the platform scheduled event for a flight awaiting
// host confirmation. On success the flight is Scheduled and its reminder is
// registered. On failure the flight is left in PendingHostConfirmation.
func (c *FlightController) MaterializeEvent(ctx context.Context, flight entity.Flight) (entity.Flight, error) {
	claimed, err := c.store.Claim(flight.Code, flight.ID, entity.StatePendingHostConfirmation)
	if err != nil {
		return entity.Flight{}, err
	}
	defer c.store.Unclaim(flight.Code, flight.ID)

	handle, err := c.platform.CreateScheduledEvent(ctx, claimed.GuildID, repository.ScheduledEventParams{
		Name:        templates.EventName(&claimed),
		Description: templates.EventDescription(&claimed),
		Location:    eventLocation,
		StartTime:   claimed.StartTime,
		EndTime:     claimed.EndTime,
	})
	if err != nil {
		c.metrics.PlatformErrors.WithLabelValues("create_scheduled_event").Inc()
		c.logger.Error("Failed to create scheduled event",
			"flightCode", claimed.Code,
			"flightID", claimed.ID,
			"error", err)
		return claimed, asPlatformError("create_scheduled_event", err)
	}

	updated, prev, err := c.store.Transition(claimed.Code, claimed.ID, func(f *entity.Flight) error {
		f.State = entity.StateScheduled
		f.PlatformEventRef = handle
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		// Cancelled or closed while the platform call was in flight.
		c.logger.Warn("Flight ended during event creation, removing event",
			"flightCode", claimed.Code,
			"flightID", claimed.ID,
			"eventID", handle.ID)
		c.deleteEvent(ctx, claimed.GuildID, handle)
		return entity.Flight{}, err
	}

	c.record(ctx, &prev, updated, updated.HostID, "event "+handle.ID)
	c.scheduleReminder(updated)
	return updated, nil
}

// RequestStaffAnnouncement opens the staff gate guarding AnnounceToStaff.
// The flight must be materialized and not yet announced to staff.
func (c *FlightController) RequestStaffAnnouncement(ctx context.Context, flight entity.Flight) (*ConfirmationGate, error) {
	if c.config.StaffChannelID == "" {
		return nil, entity.NewValidationError("staff_channel", "is not configured")
	}
	current, ok := c.store.Get(flight.Code)
	if !ok || current.ID != flight.ID {
		return nil, fmt.Errorf("flight %s: %w", flight.Code, entity.ErrFlightNotFound)
	}
	if !canAnnounceToStaff(current) {
		return nil, fmt.Errorf("flight %s in state %s: %w", current.Code, current.State, entity.ErrInvalidTransition)
	}

	return c.openStaffGate(current, templates.StaffConfirmationPrompt(&current), "Announce"), nil
}

func (c *FlightController) openStaffGate(flight entity.Flight, content, confirmLabel string) *ConfirmationGate {
	gate := NewConfirmationGate(GateConfig{
		Prompt: entity.GatePrompt{
			Content:      content,
			ConfirmLabel: confirmLabel,
			CancelLabel:  "Skip",
		},
		OnConfirm: func(ctx context.Context) (GateResult, error) {
			return c.confirmStaff(ctx, flight)
		},
		OnCancel: func(ctx context.Context, outcome GateOutcome) {
			c.logger.Info("Staff announcement skipped",
				"flightCode", flight.Code,
				"flightID", flight.ID,
				"outcome", outcome.String())
		},
		Timeout:       c.config.GateTimeout,
		AllowedActors: []string{flight.HostID, flight.CreatorID},
		Subject:       flight.ID,
	})
	c.gates.Open(gate)
	return gate
}

func (c *FlightController) confirmStaff(ctx context.Context, flight entity.Flight) (GateResult, error) {
	announced, err := c.AnnounceToStaff(ctx, flight)
	if err != nil {
		var platformErr *entity.PlatformError
		if errors.As(err, &platformErr) {
			current, ok := c.store.Get(flight.Code)
			if ok && current.ID == flight.ID && canAnnounceToStaff(current) {
				retry := c.openStaffGate(current, entity.UserMessage(err), "Retry")
				return GateResult{FollowUp: retry}, err
			}
		}
		return GateResult{}, err
	}
	return GateResult{
		Content: fmt.Sprintf("Flight **%s** was announced to staff.", announced.Code),
	}, nil
}

// AnnounceToStaff posts the staff announcement with its attendance reactions
// and moves the flight to StaffAnnounced. The flight keeps its state until the
// message is posted, so a failed post leaves it exactly as it was.
func (c *FlightController) AnnounceToStaff(ctx context.Context, flight entity.Flight) (entity.Flight, error) {
	claimed, err := c.store.Claim(flight.Code, flight.ID, entity.StateScheduled, entity.StateReminded)
	if err != nil {
		return entity.Flight{}, err
	}
	defer c.store.Unclaim(flight.Code, flight.ID)

	if claimed.StaffMessageRef != nil {
		return claimed, fmt.Errorf("flight %s already announced to staff: %w", claimed.Code, entity.ErrInvalidTransition)
	}

	handle, err := c.platform.SendMessage(ctx, c.config.StaffChannelID, templates.StaffAnnouncement(&claimed, c.config.StaffReactions))
	if err != nil {
		c.metrics.PlatformErrors.WithLabelValues("send_message").Inc()
		c.logger.Error("Failed to post staff announcement",
			"flightCode", claimed.Code,
			"flightID", claimed.ID,
			"channelID", c.config.StaffChannelID,
			"error", err)
		return claimed, asPlatformError("send_message", err)
	}

	if err := c.platform.AddReactions(ctx, handle, c.config.StaffReactions); err != nil {
		c.metrics.PlatformErrors.WithLabelValues("add_reactions").Inc()
		c.logger.Warn("Failed to add attendance reactions",
			"flightCode", claimed.Code,
			"messageID", handle.MessageID,
			"error", err)
	}

	updated, prev, err := c.store.Transition(claimed.Code, claimed.ID, func(f *entity.Flight) error {
		// A reminder may have gone out while the message was being posted.
		if f.State < entity.StateStaffAnnounced {
			f.State = entity.StateStaffAnnounced
		}
		f.StaffMessageRef = handle
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		// Cancelled or closed while the platform call was in flight.
		c.logger.Warn("Flight ended during staff announcement, removing message",
			"flightCode", claimed.Code,
			"flightID", claimed.ID,
			"messageID", handle.MessageID)
		c.deleteMessage(ctx, handle)
		return entity.Flight{}, err
	}
	c.record(ctx, &prev, updated, "", "staff message "+handle.MessageID)
	return updated, nil
}

func canAnnounceToStaff(flight entity.Flight) bool {
	return flight.StaffMessageRef == nil &&
		(flight.State == entity.StateScheduled || flight.State == entity.StateReminded)
}

// HostFlight composes the boarding announcement for a materialized flight
// found by exact code. It only marks the flight announced.
func (c *FlightController) HostFlight(ctx context.Context, req HostFlightRequest) (*HostFlightResult, error) {
	code := entity.NormalizeFlightCode(req.Code)
	if code == "" {
		return nil, entity.NewValidationError("flight_code", "is required")
	}

	c.closeIfEnded(ctx, code)
	flight, ok := c.store.Get(code)
	if !ok || !flight.State.IsMaterialized() {
		return nil, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}

	if err := c.verifyEvent(ctx, flight); err != nil {
		return nil, err
	}

	message := templates.BoardingAnnouncement(&flight, req.Route, req.Aircraft)
	result := &HostFlightResult{Flight: flight, Message: message}

	if c.config.BoardingChannelID != "" {
		if _, err := c.platform.SendMessage(ctx, c.config.BoardingChannelID, message); err != nil {
			c.metrics.PlatformErrors.WithLabelValues("send_message").Inc()
			c.logger.Error("Failed to post boarding announcement",
				"flightCode", code,
				"channelID", c.config.BoardingChannelID,
				"error", err)
			return nil, asPlatformError("send_message", err)
		}
		result.Posted = true
	}

	updated, _, err := c.store.Transition(code, flight.ID, func(f *entity.Flight) error {
		f.Announced = true
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		c.logger.Warn("Flight ended while announcing boarding", "flightCode", code, "error", err)
	} else {
		result.Flight = updated
	}

	c.logger.Info("Boarding announced",
		"flightCode", code,
		"flightID", flight.ID,
		"actorID", req.ActorID,
		"posted", result.Posted)
	return result, nil
}

// CancelFlight cancels a non-terminal flight. Pending tasks and open gates
// are dropped before this returns; the platform event is removed best-effort.
func (c *FlightController) CancelFlight(ctx context.Context, code, actorID string) (entity.Flight, error) {
	code = entity.NormalizeFlightCode(code)
	if code == "" {
		return entity.Flight{}, entity.NewValidationError("flight_code", "is required")
	}

	c.closeIfEnded(ctx, code)
	flight, ok := c.store.Get(code)
	if !ok {
		return entity.Flight{}, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}

	updated, prev, err := c.store.Transition(code, flight.ID, func(f *entity.Flight) error {
		f.State = entity.StateCancelled
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return entity.Flight{}, err
	}

	c.reminders.CancelFor(code, updated.ID)
	c.closures.CancelFor(code, updated.ID)
	c.gates.CloseSubject(updated.ID)
	c.record(ctx, &prev, updated, actorID, "cancelled by command")

	if updated.PlatformEventRef != nil {
		c.deleteEvent(ctx, updated.GuildID, updated.PlatformEventRef)
	}
	return updated, nil
}

// ActiveFlights returns every non-terminal flight that has not yet ended,
// ordered by start time. It never changes flight state.
func (c *FlightController) ActiveFlights(_ context.Context) []entity.Flight {
	now := c.clock.Now()
	flights := c.store.List()
	active := flights[:0]
	for _, flight := range flights {
		if !flight.HasEnded(now) {
			active = append(active, flight)
		}
	}
	return active
}

// Flight returns the active flight holding code.
func (c *FlightController) Flight(code string) (entity.Flight, bool) {
	return c.store.Get(entity.NormalizeFlightCode(code))
}

// Shutdown stops all pending reminder and closure tasks.
func (c *FlightController) Shutdown() {
	c.reminders.Stop()
	c.closures.Stop()
}

func (c *FlightController) scheduleReminder(flight entity.Flight) {
	c.reminders.Schedule(entity.ReminderTask{
		Key:      flight.Code,
		FlightID: flight.ID,
		FireAt:   flight.StartTime.Add(-c.config.ReminderLead),
		Payload: entity.ReminderPayload{
			RecipientID: flight.HostID,
			Content:     templates.ReminderMessage(&flight, c.config.ReminderLead),
		},
	})
}

// deliverReminder re-checks the flight under its lock before sending, so a
// cancellation that won the race is never followed by a reminder.
func (c *FlightController) deliverReminder(ctx context.Context, task entity.ReminderTask) {
	updated, prev, err := c.store.Transition(task.Key, task.FlightID, func(f *entity.Flight) error {
		if f.State != entity.StateScheduled && f.State != entity.StateStaffAnnounced {
			return fmt.Errorf("flight %s in state %s: %w", f.Code, f.State, entity.ErrInvalidTransition)
		}
		f.State = entity.StateReminded
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		c.logger.Info("Reminder dropped", "flightCode", task.Key, "flightID", task.FlightID, "reason", err.Error())
		c.metrics.Reminders.WithLabelValues(schedulerReminder, "dropped").Inc()
		return
	}
	c.record(ctx, &prev, updated, "", "reminder")

	if err := c.platform.SendDirectMessage(ctx, task.Payload.RecipientID, task.Payload.Content); err != nil {
		if errors.Is(err, entity.ErrDeliveryBlocked) {
			c.logger.Warn("Host does not accept direct messages",
				"flightCode", task.Key,
				"hostID", task.Payload.RecipientID)
			c.metrics.Reminders.WithLabelValues(schedulerReminder, "blocked").Inc()
			return
		}
		c.metrics.PlatformErrors.WithLabelValues("send_direct_message").Inc()
		c.metrics.Reminders.WithLabelValues(schedulerReminder, "failed").Inc()
		c.logger.Error("Failed to deliver reminder",
			"flightCode", task.Key,
			"hostID", task.Payload.RecipientID,
			"error", err)
		return
	}
	c.metrics.Reminders.WithLabelValues(schedulerReminder, "delivered").Inc()
}

func (c *FlightController) closeOnSchedule(ctx context.Context, task entity.ReminderTask) {
	c.closeFlight(ctx, task.Key, task.FlightID, "end time reached")
}

func (c *FlightController) closeIfEnded(ctx context.Context, code string) {
	flight, ok := c.store.Get(code)
	if ok && flight.HasEnded(c.clock.Now()) {
		c.closeFlight(ctx, code, flight.ID, "ended")
	}
}

func (c *FlightController) closeFlight(ctx context.Context, code, flightID, detail string) {
	updated, prev, err := c.store.Transition(code, flightID, func(f *entity.Flight) error {
		f.State = entity.StateClosed
		f.UpdatedAt = c.clock.Now()
		return nil
	})
	if err != nil {
		return
	}

	c.reminders.CancelFor(code, flightID)
	c.closures.CancelFor(code, flightID)
	c.gates.CloseSubject(flightID)
	c.record(ctx, &prev, updated, "", detail)
}

// verifyEvent checks that the flight's scheduled event was not removed on
// the platform side.
func (c *FlightController) verifyEvent(ctx context.Context, flight entity.Flight) error {
	if flight.PlatformEventRef == nil {
		return nil
	}
	events, err := c.platform.FetchScheduledEvents(ctx, flight.GuildID)
	if err != nil {
		c.metrics.PlatformErrors.WithLabelValues("fetch_scheduled_events").Inc()
		c.logger.Error("Failed to fetch scheduled events",
			"flightCode", flight.Code,
			"guildID", flight.GuildID,
			"error", err)
		return asPlatformError("fetch_scheduled_events", err)
	}
	for _, event := range events {
		if event.ID == flight.PlatformEventRef.ID {
			return nil
		}
	}
	c.logger.Warn("Scheduled event no longer exists",
		"flightCode", flight.Code,
		"flightID", flight.ID,
		"eventID", flight.PlatformEventRef.ID)
	return fmt.Errorf("flight %s event %s: %w", flight.Code, flight.PlatformEventRef.ID, entity.ErrEventMissing)
}

func (c *FlightController) deleteMessage(ctx context.Context, handle *entity.MessageHandle) {
	if err := c.platform.DeleteMessage(ctx, handle); err != nil {
		c.metrics.PlatformErrors.WithLabelValues("delete_message").Inc()
		c.logger.Warn("Failed to delete message",
			"channelID", handle.ChannelID,
			"messageID", handle.MessageID,
			"error", err)
	}
}

func (c *FlightController) deleteEvent(ctx context.Context, guildID string, handle *entity.EventHandle) {
	if err := c.platform.DeleteScheduledEvent(ctx, guildID, handle.ID); err != nil {
		c.metrics.PlatformErrors.WithLabelValues("delete_scheduled_event").Inc()
		c.logger.Warn("Failed to delete scheduled event",
			"guildID", guildID,
			"eventID", handle.ID,
			"error", err)
	}
}

// record logs, counts, audits and publishes a transition. prev is nil for
// creation. Audit and publish failures never affect the flight.
func (c *FlightController) record(ctx context.Context, prev *entity.FlightState, flight entity.Flight, actorID, detail string) {
	from := ""
	if prev != nil {
		from = prev.String()
	}

	c.metrics.FlightTransitions.WithLabelValues(flight.State.String()).Inc()
	c.logger.Info("Flight state changed",
		"flightCode", flight.Code,
		"flightID", flight.ID,
		"from", from,
		"state", flight.State.String(),
		"detail", detail)

	event := &entity.FlightEvent{
		ID:         utils.NewID(),
		FlightID:   flight.ID,
		FlightCode: flight.Code,
		GuildID:    flight.GuildID,
		From:       from,
		To:         flight.State.String(),
		ActorID:    actorID,
		Detail:     detail,
		Flight:     flight,
		State:      flight.State,
		OccurredAt: c.clock.Now(),
	}

	if err := c.audit.Record(ctx, event); err != nil {
		c.logger.Warn("Failed to record flight event", "flightCode", flight.Code, "error", err)
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Failed to publish flight event", "flightCode", flight.Code, "error", err)
	}
}

func asPlatformError(op string, err error) error {
	var platformErr *entity.PlatformError
	if errors.As(err, &platformErr) {
		return err
	}
	return entity.NewPlatformError(op, err)
}
