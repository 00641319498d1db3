package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/rs/zerolog"
)

// deliverTimeout bounds a single delivery attempt.
const deliverTimeout = 30 * time.Second

// ErrNoChannel is returned when no delivery channel is available.
var ErrNoChannel = errors.New("no notification channel available")

// CompletionChecker reports whether a reminder was already done today.
type CompletionChecker interface {
	IsCompleted(id string) bool
}

// Timer is a cancellable one-shot callback.
type Timer interface {
	Stop() bool
}

// TimerFunc arms f to run after d.
type TimerFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler arms one timer per reminder still due later today and delivers a
// notification when it fires.
type Scheduler struct {
	store    CompletionChecker
	auth     Authorizer
	channels []Notifier
	logger   zerolog.Logger
	now      func() time.Time
	arm      TimerFunc
	metrics  *Metrics

	mu     sync.Mutex
	timers map[string]Timer
	gen    uint64
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithTimerFunc overrides how timers are armed.
func WithTimerFunc(f TimerFunc) Option {
	return func(s *Scheduler) { s.arm = f }
}

// WithMetrics records scheduler activity in m.
func WithMetrics(m *Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New creates a Scheduler. channels are tried in order; the first available one delivers.
func New(store CompletionChecker, auth Authorizer, channels []Notifier, logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		auth:     auth,
		channels: channels,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
		arm:      afterFunc,
		timers:   make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleAll cancels every pending timer and arms a fresh one for each enabled
// reminder that is due today, not yet completed and still ahead of now.
// It returns the number of armed timers.
func (s *Scheduler) ScheduleAll(reminders []reminder.Reminder) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.metrics.incRuns()

	if s.auth == nil || s.auth.Permission() != PermissionGranted {
		s.logger.Debug().Msg("notifications not authorized, nothing scheduled")
		return 0
	}

	now := s.now()
	gen := s.gen
	skipped := 0
	for _, r := range reminders {
		if !r.Enabled || !reminder.IsDueToday(r, now) || s.store.IsCompleted(r.ID) {
			skipped++
			continue
		}
		delay := reminder.TodayAt(r, now).Sub(now)
		if delay <= 0 {
			skipped++
			continue
		}

		r := r
		s.timers[r.ID] = s.arm(delay, func() { s.fire(gen, r) })
	}

	s.metrics.setPending(len(s.timers))
	s.logger.Debug().Int("scheduled", len(s.timers)).Int("skipped", skipped).Msg("schedule recomputed")
	return len(s.timers)
}

// ClearAll cancels every pending timer.
func (s *Scheduler) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.metrics.setPending(0)
}

func (s *Scheduler) clearLocked() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	// Timers that already started firing carry the old generation and are ignored.
	s.gen++
}

// Pending returns the ids with an armed timer, sorted.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Scheduler) fire(gen uint64, r reminder.Reminder) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, r.ID)
	s.metrics.setPending(len(s.timers))
	auth := s.auth
	s.mu.Unlock()

	// Permission may have been revoked since the timer was armed, possibly by
	// another process sharing the store.
	if auth == nil || auth.Permission() != PermissionGranted {
		s.logger.Debug().Str("id", r.ID).Msg("notifications no longer authorized, dropping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()
	if err := s.ShowNotification(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("id", r.ID).Msg("notification not delivered")
	}
}

// NotificationFor builds the notification shown for r.
func NotificationFor(r reminder.Reminder) Notification {
	return Notification{
		Title: r.Icon() + " " + r.Name,
		Body:  "Time for: " + r.Name,
		Tag:   r.ID,
	}
}

// ShowNotification delivers r's notification through the first available channel.
func (s *Scheduler) ShowNotification(ctx context.Context, r reminder.Reminder) error {
	return s.deliver(ctx, NotificationFor(r))
}

// SendTest delivers a fixed notification confirming delivery works.
func (s *Scheduler) SendTest(ctx context.Context) error {
	return s.deliver(ctx, Notification{
		Title: "🔔 Test Notification",
		Body:  "Notifications are working!",
		Tag:   "test",
	})
}

func (s *Scheduler) deliver(ctx context.Context, n Notification) error {
	for _, ch := range s.channels {
		if !ch.Available() {
			continue
		}
		if err := ch.Deliver(ctx, n); err != nil {
			s.metrics.incDelivery(ch.Name(), "error")
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
		s.metrics.incDelivery(ch.Name(), "ok")
		s.logger.Info().Str("channel", ch.Name()).Str("tag", n.Tag).Msg("notification delivered")
		return nil
	}
	return ErrNoChannel
}
