package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/engine"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/metrics"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/notify"
)

// Worker processes manually requested single-event scheduling runs
// (spec.md §4.4.4) with bounded concurrency, the in-process analogue of
// the teacher's claim-and-execute worker loop. Requests arrive over a
// channel rather than being claimed from a shared table, since manual
// triggers are out of this module's scope (spec.md Non-goals) — the
// channel is the seam a future HTTP/UI layer would feed.
type Worker struct {
	eng         *engine.Engine
	notifier    notify.Notifier
	logger      *slog.Logger
	requests    chan int
	concurrency int
}

func NewWorker(eng *engine.Engine, notifier notify.Notifier, logger *slog.Logger, concurrency int) *Worker {
	return &Worker{
		eng:         eng,
		notifier:    notifier,
		logger:      logger.With("component", "worker"),
		requests:    make(chan int, 64),
		concurrency: concurrency,
	}
}

// Submit enqueues a single-event scheduling request. Returns false if the
// queue is full.
func (w *Worker) Submit(eventRefNum int) bool {
	select {
	case w.requests <- eventRefNum:
		return true
	default:
		return false
	}
}

func (w *Worker) Start(ctx context.Context) {
	sem := make(chan struct{}, w.concurrency)

	w.logger.Info("worker started", "concurrency", w.concurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shut down")
			return
		case refNum := <-w.requests:
			sem <- struct{}{}
			go func(ref int) {
				defer func() { <-sem }()
				w.process(ctx, ref)
			}(refNum)
		}
	}
}

func (w *Worker) process(ctx context.Context, eventRefNum int) {
	start := time.Now()
	pending, err := w.eng.ScheduleSingleEvent(ctx, eventRefNum)
	if err != nil {
		w.logger.Error("manual schedule failed", "event_ref_num", eventRefNum, "error", err)
		metrics.RunDuration.WithLabelValues("manual", "failed").Observe(time.Since(start).Seconds())
		return
	}

	status := "completed"
	if pending.Failed() {
		status = "completed_with_failure"
	}
	metrics.RunDuration.WithLabelValues("manual", status).Observe(time.Since(start).Seconds())
	w.logger.Info("manual schedule finished", "event_ref_num", eventRefNum, "status", status)
}
