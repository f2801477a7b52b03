package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/engine"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/metrics"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/notify"
)

// Dispatcher fires the automatic scheduler run on the configured cron
// schedule. Unlike the teacher's polling dispatcher, there is no table of
// independent schedules to claim — spec.md §5 describes exactly one
// recurring run plus optional manual runs, so this type wraps a single
// cron entry.
type Dispatcher struct {
	eng      *engine.Engine
	notifier notify.Notifier
	logger   *slog.Logger
	sched    cron.Schedule
}

func NewDispatcher(eng *engine.Engine, notifier notify.Notifier, logger *slog.Logger, cronExpr string) (*Dispatcher, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		eng:      eng,
		notifier: notifier,
		logger:   logger.With("component", "dispatcher"),
		sched:    sched,
	}, nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	next := d.sched.Next(time.Now())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	d.logger.Info("dispatcher started", "next_run", next)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher shut down")
			return
		case <-timer.C:
			d.fire(ctx)
			next = d.sched.Next(time.Now())
			timer.Reset(time.Until(next))
		}
	}
}

func (d *Dispatcher) fire(ctx context.Context) {
	d.logger.Info("automatic run starting")
	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()

	start := time.Now()
	run, err := d.eng.RunAutoScheduler(ctx, domain.RunTypeAutomatic)
	status := "completed"
	if err != nil {
		status = "failed"
		d.logger.Error("automatic run failed", "error", err)
	}
	if run != nil {
		metrics.RunDuration.WithLabelValues(string(domain.RunTypeAutomatic), status).Observe(time.Since(start).Seconds())
		if notifyErr := d.notifier.NotifyRunCompleted(ctx, *run); notifyErr != nil {
			d.logger.Warn("run notification failed", "run_id", run.ID, "error", notifyErr)
		}
	}
}
