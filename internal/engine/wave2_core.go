package engine

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// runWave2Core schedules Core events day by day across their window,
// assigning them into the least-busy Core time slot. Per spec.md
// §4.4.2 and original_source's `_schedule_core_events_wave2_new`
// (scheduling_engine.py:1267-1309), the short-notice/normal-window
// classification is recomputed for EACH candidate date (days from today
// to that date, not to the event's own due date): dates within
// cfg.ShortNoticeDays of today skip straight to bumping a less-urgent
// occupant, since there isn't time left to search for an empty slot;
// dates with more runway try an empty slot first and only bump as a
// last resort.
func (e *Engine) runWave2Core(ctx context.Context, events []*domain.Event, now time.Time) error {
	for _, ev := range events {
		placed, err := e.scheduleCoreEvent(ctx, *ev, now)
		if err != nil {
			return err
		}
		if placed != nil {
			if err := e.pairSupervisorFor(ctx, *ev, *placed.ScheduleDatetime); err != nil {
				return err
			}
			continue
		}
		if _, err := e.createFailedPendingAssignment(ctx, *ev, "no available employee or bumpable slot within the scheduling window"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scheduleCoreEvent(ctx context.Context, event domain.Event, now time.Time) (*domain.PendingAssignment, error) {
	start := event.StartDatetime
	if start.Before(now) {
		start = now
	}
	civilNow := civilDate(now)

	for d := civilDate(start); d.Before(civilDate(event.DueDatetime)); d = d.AddDate(0, 0, 1) {
		daysFromNow := int(d.Sub(civilNow).Hours() / 24)
		shortNotice := daysFromNow <= e.cfg.ShortNoticeDays

		if !shortNotice {
			placed, err := e.tryFillEmptySlotOnDate(ctx, event, d)
			if err != nil {
				return nil, err
			}
			if placed != nil {
				return placed, nil
			}
		}

		ok, err := e.tryCascadingBump(ctx, event, d, now)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.pending.GetByEventRefNumForRuns(ctx, []string{e.run.ID}, event.ProjectRefNum)
		}
	}
	return nil, nil
}

// tryFillEmptySlotOnDate offers the least-busy Core slot on date to the
// best-ranked available employee.
func (e *Engine) tryFillEmptySlotOnDate(ctx context.Context, event domain.Event, date time.Time) (*domain.PendingAssignment, error) {
	slot, err := nextCoreSlot(ctx, e.schedules, e.pending, e.run.ID, e.cfg, date)
	if err != nil {
		return nil, err
	}
	candidateAt := slot.On(date)

	available, err := e.validator.GetAvailableEmployees(ctx, event, candidateAt)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, nil
	}

	candidates, err := e.candidatesWithJuicerFlag(ctx, available, date)
	if err != nil {
		return nil, err
	}
	ranked := e.rankerImpl.Rank(event, candidates)
	if len(ranked) == 0 {
		return nil, nil
	}

	return e.createPendingAssignment(ctx, event, ranked[0].ID, candidateAt, false, nil, nil)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
