package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"

	"github.com/benbjohnson/clock"
)

// DeliverFunc runs when a task fires. It is invoked at most once per task.
type DeliverFunc func(ctx context.Context, task entity.ReminderTask)

const (
	taskPending int32 = iota
	taskFired
	taskCancelled
)

type scheduledTask struct {
	task  entity.ReminderTask
	timer *clock.Timer
	// state is assigned exactly once, from taskPending to taskFired or
	// taskCancelled, which makes firing and cancellation mutually exclusive.
	state atomic.Int32
}

// ReminderScheduler keeps one independent, cancellable deferred task per key.
type ReminderScheduler struct {
	name    string
	clock   clock.Clock
	deliver DeliverFunc
	logger  logger.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	tasks map[string]*scheduledTask
}

// NewReminderScheduler creates a scheduler. name labels its logs and metrics.
func NewReminderScheduler(
	name string,
	clk clock.Clock,
	deliver DeliverFunc,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ReminderScheduler {
	return &ReminderScheduler{
		name:    name,
		clock:   clk,
		deliver: deliver,
		logger:  logger.With("scheduler", name),
		metrics: metrics,
		tasks:   make(map[string]*scheduledTask),
	}
}

// Schedule registers task under task.Key, replacing any pending task for the
// same key. A task whose FireAt is not in the future is skipped and Schedule
// returns false.
func (s *ReminderScheduler) Schedule(task entity.ReminderTask) bool {
	s.Cancel(task.Key)

	delay := task.FireAt.Sub(s.clock.Now())
	if delay <= 0 {
		s.logger.Info("Skipping task already due", "key", task.Key, "fireAt", task.FireAt)
		s.metrics.Reminders.WithLabelValues(s.name, "skipped").Inc()
		return false
	}

	scheduled := &scheduledTask{task: task}

	s.mu.Lock()
	if previous, ok := s.tasks[task.Key]; ok {
		// Lost a race with a concurrent Schedule for the same key.
		s.stopLocked(task.Key, previous)
	}
	s.tasks[task.Key] = scheduled
	scheduled.timer = s.clock.AfterFunc(delay, func() { s.fire(scheduled) })
	s.mu.Unlock()

	s.logger.Debug("Task scheduled", "key", task.Key, "fireAt", task.FireAt, "in", delay.String())
	s.metrics.Reminders.WithLabelValues(s.name, "scheduled").Inc()
	return true
}

// Cancel removes the pending task for key. It returns true when a task was
// cancelled before it fired.
func (s *ReminderScheduler) Cancel(key string) bool {
	s.mu.Lock()
	scheduled, ok := s.tasks[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	cancelled := s.stopLocked(key, scheduled)
	s.mu.Unlock()

	if cancelled {
		s.logger.Debug("Task cancelled", "key", key)
		s.metrics.Reminders.WithLabelValues(s.name, "cancelled").Inc()
	}
	return cancelled
}

// CancelFor cancels the pending task for key only if it belongs to flightID.
func (s *ReminderScheduler) CancelFor(key, flightID string) bool {
	s.mu.Lock()
	scheduled, ok := s.tasks[key]
	if !ok || scheduled.task.FlightID != flightID {
		s.mu.Unlock()
		return false
	}
	cancelled := s.stopLocked(key, scheduled)
	s.mu.Unlock()

	if cancelled {
		s.logger.Debug("Task cancelled", "key", key, "flightID", flightID)
		s.metrics.Reminders.WithLabelValues(s.name, "cancelled").Inc()
	}
	return cancelled
}

// Pending reports whether a task is waiting to fire for key.
func (s *ReminderScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	scheduled, ok := s.tasks[key]
	return ok && scheduled.state.Load() == taskPending
}

// Len returns the number of pending tasks.
func (s *ReminderScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending task. Used at shutdown.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, scheduled := range s.tasks {
		s.stopLocked(key, scheduled)
	}
}

// stopLocked must be called with s.mu held.
func (s *ReminderScheduler) stopLocked(key string, scheduled *scheduledTask) bool {
	delete(s.tasks, key)
	if scheduled.timer != nil {
		scheduled.timer.Stop()
	}
	return scheduled.state.CompareAndSwap(taskPending, taskCancelled)
}

func (s *ReminderScheduler) fire(scheduled *scheduledTask) {
	if !scheduled.state.CompareAndSwap(taskPending, taskFired) {
		return
	}

	s.mu.Lock()
	if s.tasks[scheduled.task.Key] == scheduled {
		delete(s.tasks, scheduled.task.Key)
	}
	s.mu.Unlock()

	s.logger.Info("Task fired", "key", scheduled.task.Key, "flightID", scheduled.task.FlightID)
	s.metrics.Reminders.WithLabelValues(s.name, "fired").Inc()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.deliver(ctx, scheduled.task)
}
