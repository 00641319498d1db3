package scheduler

import (
	"context"
	"fmt"

	"github.com/notexe/daily-reminders/internal/reminder"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Source supplies the current reminder list.
type Source interface {
	GetAll() []reminder.Reminder
}

// RunnerConfig holds the cron specs driving periodic recomputes.
type RunnerConfig struct {
	Rollover string // day rollover, e.g. "@midnight"
	Resync   string // periodic full recompute, e.g. "@every 15m"
}

// Runner keeps a Scheduler in step with the store across day boundaries and
// external edits.
type Runner struct {
	sched  *Scheduler
	source Source
	cfg    RunnerConfig
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewRunner creates a Runner. Jobs are registered by Run.
func NewRunner(sched *Scheduler, source Source, cfg RunnerConfig, logger zerolog.Logger) *Runner {
	return &Runner{
		sched:  sched,
		source: source,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger.With().Str("component", "runner").Logger(),
	}
}

// Reschedule recomputes every timer from the current reminder list.
func (r *Runner) Reschedule() int {
	return r.sched.ScheduleAll(r.source.GetAll())
}

// Run schedules once, starts the cron jobs and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if r.cfg.Rollover != "" {
		if _, err := r.cron.AddFunc(r.cfg.Rollover, func() {
			n := r.Reschedule()
			r.logger.Info().Int("scheduled", n).Msg("day rollover")
		}); err != nil {
			return fmt.Errorf("add rollover job: %w", err)
		}
	}
	if r.cfg.Resync != "" {
		if _, err := r.cron.AddFunc(r.cfg.Resync, func() {
			r.Reschedule()
		}); err != nil {
			return fmt.Errorf("add resync job: %w", err)
		}
	}

	n := r.Reschedule()
	r.cron.Start()
	r.logger.Info().Int("scheduled", n).Str("rollover", r.cfg.Rollover).Str("resync", r.cfg.Resync).Msg("scheduler started")

	<-ctx.Done()

	stopped := r.cron.Stop()
	<-stopped.Done()
	r.sched.ClearAll()
	r.logger.Info().Msg("scheduler stopped")
	return nil
}
