package engine

import (
	"context"
	"sort"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// runRescuePass makes one more cascading-bump attempt for Core events
// that failed elsewhere in the run and are due within a week, per
// spec.md §4.4.5's rescue pass. A rescue success deletes the failure
// record and corrects the run's scheduled/failed counters; bumps spent
// during rescue still count against MaxBumpsPerEvent.
func (e *Engine) runRescuePass(ctx context.Context, now time.Time) error {
	failed, err := e.pending.ListFailedByRun(ctx, e.run.ID)
	if err != nil {
		return err
	}

	type urgent struct {
		pending *domain.PendingAssignment
		event   domain.Event
	}
	var candidates []urgent
	for _, p := range failed {
		if p.EventType != domain.EventTypeCore {
			continue
		}
		ev, err := e.events.GetByRefNum(ctx, p.EventRefNum)
		if err != nil || ev == nil {
			continue
		}
		if ev.DaysUntilDue(now) > 7 {
			continue
		}
		candidates = append(candidates, urgent{pending: p, event: *ev})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].event.DueDatetime.Before(candidates[j].event.DueDatetime)
	})

	for _, c := range candidates {
		start := c.event.StartDatetime
		if start.Before(now) {
			start = now
		}

		rescued := false
		for d := civilDate(start); d.Before(civilDate(c.event.DueDatetime)); d = d.AddDate(0, 0, 1) {
			ok, err := e.tryCascadingBump(ctx, c.event, d, now)
			if err != nil {
				return err
			}
			if ok {
				rescued = true
				break
			}
		}
		if !rescued {
			continue
		}

		if err := e.pending.Delete(ctx, c.pending.ID); err != nil {
			return err
		}
		if e.run.EventsFailed > 0 {
			e.run.EventsFailed--
		}

		if placed, err := e.pending.GetByEventRefNumForRuns(ctx, []string{e.run.ID}, c.event.ProjectRefNum); err == nil && placed != nil && placed.EmployeeID != nil && placed.ScheduleDatetime != nil {
			if err := e.pairSupervisorFor(ctx, c.event, *placed.ScheduleDatetime); err != nil {
				return err
			}
		}
	}
	return nil
}
