package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/metrics"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
)

// Reaper marks SchedulerRuns that have been stuck in "running" past
// StaleRunTimeoutMin as failed, so a crashed process doesn't leave the
// cross-run-visibility set (domain.SchedulerRun.IsActive) permanently
// polluted with a run nothing is still writing to.
type Reaper struct {
	runs    repository.RunRepository
	logger  *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewReaper(runs repository.RunRepository, logger *slog.Logger, interval, timeout time.Duration) *Reaper {
	return &Reaper{
		runs:     runs,
		logger:   logger.With("component", "reaper"),
		interval: interval,
		timeout:  timeout,
	}
}

func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reaper started", "interval", r.interval, "timeout", r.timeout)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reaper shut down")
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *Reaper) reap(ctx context.Context) {
	cutoff := time.Now().Add(-r.timeout)

	stale, err := r.runs.ListStaleRunning(ctx, cutoff)
	if err != nil {
		r.logger.Error("list stale running", "error", err)
		return
	}

	for _, run := range stale {
		msg := "run exceeded stale timeout"
		run.Status = domain.RunStatusFailed
		run.ErrorMessage = &msg
		now := time.Now()
		run.CompletedAt = &now

		if err := r.runs.Update(ctx, run); err != nil {
			r.logger.Error("mark run failed", "run_id", run.ID, "error", err)
			continue
		}
		metrics.ReaperResetTotal.Inc()
		r.logger.Warn("reaped stale run", "run_id", run.ID, "started_at", run.StartedAt)
	}
}
