package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
)

var errPlatformDown = errors.New("discord unavailable")

type sentMessage struct {
	ChannelID string
	Message   *entity.OutboundMessage
}

type directMessage struct {
	UserID  string
	Content string
}

// fakePlatform records every call. Errors are injected per operation.
type fakePlatform struct {
	mu sync.Mutex

	createErr error
	fetchErr  error
	sendErr   error
	dmErr     error
	rolesErr  error

	// onSend runs before SendMessage records anything, without the lock held.
	onSend func()

	created         []repository.ScheduledEventParams
	events          []string
	deleted         []string
	messages        []sentMessage
	deletedMessages []string
	reactions map[string][]string
	dms       chan directMessage
	members   map[string]*entity.MemberRoles
	nextID    int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		reactions: make(map[string][]string),
		dms:       make(chan directMessage, 16),
		members:   make(map[string]*entity.MemberRoles),
	}
}

func (p *fakePlatform) id(prefix string) string {
	p.nextID++
	return prefix + "-" + strconv.Itoa(p.nextID)
}

func (p *fakePlatform) CreateScheduledEvent(_ context.Context, guildID string, params repository.ScheduledEventParams) (*entity.EventHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, entity.NewPlatformError("create_scheduled_event", p.createErr)
	}
	p.created = append(p.created, params)
	id := p.id("event")
	p.events = append(p.events, id)
	return &entity.EventHandle{ID: id, URL: "https://discord.com/events/" + guildID + "/" + id}, nil
}

func (p *fakePlatform) FetchScheduledEvents(_ context.Context, guildID string) ([]*entity.EventHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetchErr != nil {
		return nil, entity.NewPlatformError("fetch_scheduled_events", p.fetchErr)
	}
	handles := make([]*entity.EventHandle, 0, len(p.events))
	for _, id := range p.events {
		handles = append(handles, &entity.EventHandle{ID: id, URL: "https://discord.com/events/" + guildID + "/" + id})
	}
	return handles, nil
}

func (p *fakePlatform) DeleteScheduledEvent(_ context.Context, _ string, eventID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, eventID)
	p.removeEvent(eventID)
	return nil
}

// removeEvent drops eventID from the live events. Callers hold p.mu.
func (p *fakePlatform) removeEvent(eventID string) {
	for i, id := range p.events {
		if id == eventID {
			p.events = append(p.events[:i], p.events[i+1:]...)
			return
		}
	}
}

func (p *fakePlatform) SendMessage(_ context.Context, channelID string, msg *entity.OutboundMessage) (*entity.MessageHandle, error) {
	p.mu.Lock()
	onSend := p.onSend
	p.mu.Unlock()
	if onSend != nil {
		onSend()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return nil, entity.NewPlatformError("send_message", p.sendErr)
	}
	p.messages = append(p.messages, sentMessage{ChannelID: channelID, Message: msg})
	return &entity.MessageHandle{ChannelID: channelID, MessageID: p.id("message")}, nil
}

func (p *fakePlatform) DeleteMessage(_ context.Context, handle *entity.MessageHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletedMessages = append(p.deletedMessages, handle.MessageID)
	return nil
}

func (p *fakePlatform) AddReactions(_ context.Context, handle *entity.MessageHandle, reactions []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactions[handle.MessageID] = append(p.reactions[handle.MessageID], reactions...)
	return nil
}

func (p *fakePlatform) SendDirectMessage(_ context.Context, userID string, content string) error {
	p.mu.Lock()
	err := p.dmErr
	p.mu.Unlock()
	p.dms <- directMessage{UserID: userID, Content: content}
	return err
}

func (p *fakePlatform) GetRoles(_ context.Context, guildID string, userID string) (*entity.MemberRoles, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rolesErr != nil {
		return nil, entity.NewPlatformError("get_member", p.rolesErr)
	}
	member, ok := p.members[userID]
	if !ok {
		return nil, entity.NewPlatformError("get_member", errors.New("unknown member"))
	}
	return member, nil
}

func (p *fakePlatform) setCreateErr(err error) {
	p.mu.Lock()
	p.createErr = err
	p.mu.Unlock()
}

func (p *fakePlatform) setSendErr(err error) {
	p.mu.Lock()
	p.sendErr = err
	p.mu.Unlock()
}

func (p *fakePlatform) setOnSend(fn func()) {
	p.mu.Lock()
	p.onSend = fn
	p.mu.Unlock()
}

// dropEvent simulates an event removed by hand in the Discord client.
func (p *fakePlatform) dropEvent(eventID string) {
	p.mu.Lock()
	p.removeEvent(eventID)
	p.mu.Unlock()
}

func (p *fakePlatform) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.created)
}

func (p *fakePlatform) deletedEvents() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.deleted...)
}

func (p *fakePlatform) deletedMessageIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.deletedMessages...)
}

func (p *fakePlatform) sentMessages() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentMessage(nil), p.messages...)
}

type fakeAudit struct {
	mu     sync.Mutex
	events []*entity.FlightEvent
}

func (a *fakeAudit) Record(_ context.Context, event *entity.FlightEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

func (a *fakeAudit) FindByFlightCode(_ context.Context, code string, limit int) ([]*entity.FlightEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []*entity.FlightEvent
	for _, event := range a.events {
		if event.FlightCode == code {
			out = append(out, event)
		}
	}
	return out, nil
}

func (a *fakeAudit) states(code string) []string {
	events, _ := a.FindByFlightCode(context.Background(), code, 0)
	var states []string
	for _, event := range events {
		states = append(states, event.To)
	}
	return states
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*entity.FlightEvent
}

func (p *fakePublisher) Publish(_ context.Context, event *entity.FlightEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics("test", prometheus.NewRegistry())
}

func newTestLogger() logger.Logger {
	return logger.NewNopLogger()
}

// newMockClock returns a mock clock set to 20 Dec 2025 12:00 UTC.
func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC))
	return mock
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func expectDM(t *testing.T, platform *fakePlatform) directMessage {
	t.Helper()
	select {
	case dm := <-platform.dms:
		return dm
	case <-time.After(time.Second):
		t.Fatal("expected a direct message")
		return directMessage{}
	}
}

func expectNoDM(t *testing.T, platform *fakePlatform) {
	t.Helper()
	select {
	case dm := <-platform.dms:
		t.Fatalf("unexpected direct message to %s: %q", dm.UserID, dm.Content)
	case <-time.After(50 * time.Millisecond):
	}
}
