// Package scheduler repeats the inventory check on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Houeta/yard-scout/internal/services/checker"
)

var ErrInvalidInterval = errors.New("scheduler interval must be positive")

// Config holds configuration for the scheduler.
type Config struct {
	Interval     time.Duration
	RunOnStartup bool
}

// Scheduler runs check cycles one after another. A cycle always finishes
// before the next tick is looked at, so cycles never overlap.
type Scheduler struct {
	log     *slog.Logger
	checker checker.Interface
	cfg     Config
}

// NewScheduler creates a new scheduler with the given configuration.
func NewScheduler(log *slog.Logger, chk checker.Interface, cfg Config) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, ErrInvalidInterval
	}

	return &Scheduler{log: log, checker: chk, cfg: cfg}, nil
}

// Run blocks until ctx is canceled, running one cycle per interval.
func (s *Scheduler) Run(ctx context.Context) {
	const opn = "scheduler.Run"
	log := s.log.With("op", opn)

	log.InfoContext(ctx, "Scheduler started", "interval", s.cfg.Interval, "run_on_startup", s.cfg.RunOnStartup)

	if s.cfg.RunOnStartup {
		s.runCycle(ctx, log)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.InfoContext(ctx, "Context cancelled, scheduler is shutting down")
			return
		case <-ticker.C:
			// A long cycle may leave a tick pending while the context was canceled.
			if ctx.Err() != nil {
				continue
			}
			s.runCycle(ctx, log)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context, log *slog.Logger) {
	res := s.checker.RunOnce(ctx)
	log.InfoContext(
		ctx,
		"Check cycle finished",
		"cycle_id", res.CycleID,
		"outcome", res.Outcome.String(),
		"fetched", res.Fetched,
		"new", len(res.NewItems),
	)
}
