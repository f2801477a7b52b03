package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// bumpTarget is a committed or current-run-pending Core assignment
// that occupies a slot another event might need more urgently. Bump
// search is scoped to the current run's own pending proposals only — not
// every active run — matching the source's per-run bump search.
type bumpTarget struct {
	Pending          bool
	ID               string
	Event            domain.Event
	EmployeeID       string
	ScheduleDatetime time.Time
	BumpCount        int
	Score            int
}

// findBumpTargets lists every Core assignment on date that is a legal
// bump candidate: not a Supervisor checkpoint, not within MinDaysToDue of
// its own due date, sorted least-urgent (most bumpable) first.
func (e *Engine) findBumpTargets(ctx context.Context, date time.Time) ([]bumpTarget, error) {
	now := time.Now()
	if e.cfg.Timezone != nil {
		now = now.In(e.cfg.Timezone)
	}

	var targets []bumpTarget

	committed, err := e.schedules.ListOnDate(ctx, date, nil)
	if err != nil {
		return nil, err
	}
	for _, s := range committed {
		if s.EventType != domain.EventTypeCore {
			continue
		}
		ev, err := e.events.GetByRefNum(ctx, s.EventRefNum)
		if err != nil || ev == nil {
			continue
		}
		if ev.DaysUntilDue(now) < conflict.MinDaysToDue {
			continue
		}
		targets = append(targets, bumpTarget{
			ID:               s.ID,
			Event:            *ev,
			EmployeeID:       s.EmployeeID,
			ScheduleDatetime: s.ScheduleDatetime,
			BumpCount:        s.BumpCount,
			Score:            conflict.CalculatePriorityScore(*ev, now),
		})
	}

	pend, err := e.pending.ListOnDateForRuns(ctx, []string{e.run.ID}, date, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range pend {
		if p.Failed() || p.Status == domain.PendingStatusSuperseded || p.EventType != domain.EventTypeCore {
			continue
		}
		ev, err := e.events.GetByRefNum(ctx, p.EventRefNum)
		if err != nil || ev == nil {
			continue
		}
		if ev.DaysUntilDue(now) < conflict.MinDaysToDue {
			continue
		}
		targets = append(targets, bumpTarget{
			Pending:          true,
			ID:               p.ID,
			Event:            *ev,
			EmployeeID:       p.GetEmployeeID(),
			ScheduleDatetime: p.GetScheduleDatetime(),
			BumpCount:        p.BumpCount,
			Score:            conflict.CalculatePriorityScore(*ev, now),
		})
	}

	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Score > targets[j].Score })
	return targets, nil
}

// tryCascadingBump looks for the least-urgent occupant of date's slots
// and, if genuinely less urgent than event, frees its slot for event —
// first trying to move the bumped occupant forward to an alternative
// date (no net loss), falling back to marking it as requiring a manual
// reschedule.
func (e *Engine) tryCascadingBump(ctx context.Context, event domain.Event, date time.Time, now time.Time) (bool, error) {
	targets, err := e.findBumpTargets(ctx, date)
	if err != nil {
		return false, err
	}

	highScore := conflict.CalculatePriorityScore(event, now)
	for _, t := range targets {
		if t.BumpCount >= e.cfg.MaxBumpsPerEvent {
			continue
		}
		if !conflict.ValidateSwap(event, t.Event) {
			continue
		}

		moved, err := e.tryForwardMove(ctx, event, t)
		if err != nil {
			return false, err
		}
		if !moved {
			if err := e.vacate(ctx, t); err != nil {
				return false, err
			}
		}

		reason := fmt.Sprintf("event %d (due in %d days) bumped event %d (due in %d days)",
			event.ProjectRefNum, highScore, t.Event.ProjectRefNum, t.Score)
		bumpedRef := t.Event.ProjectRefNum
		if _, err := e.createPendingAssignment(ctx, event, t.EmployeeID, t.ScheduleDatetime, true, &bumpedRef, &reason); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// tryForwardMove attempts to reschedule t's occupant to an EARLIER date,
// in its own existing time slot, within [max(event.start, t.Event.start),
// t.ScheduleDatetime) — so a bump costs nothing when the calendar has
// room before the slot currently in contention (spec.md §4.4.2's
// forward-move optimization, checked before falling back to an outright
// vacate). Grounded on original_source's `_try_move_event_forward`
// (scheduling_engine.py:362-451): ascending day scan, same time-of-day,
// first validating date wins — no new slot is chosen via nextCoreSlot.
func (e *Engine) tryForwardMove(ctx context.Context, event domain.Event, t bumpTarget) (bool, error) {
	searchStart := t.Event.StartDatetime
	if event.StartDatetime.After(searchStart) {
		searchStart = event.StartDatetime
	}
	searchStart = civilDate(searchStart)
	searchEnd := civilDate(t.ScheduleDatetime)
	if !searchStart.Before(searchEnd) {
		return false, nil
	}

	employee, err := e.employees.GetByID(ctx, t.EmployeeID)
	if err != nil || employee == nil {
		return false, nil //nolint:nilerr // employee gone is just "can't move it"
	}

	timeOfDay := t.ScheduleDatetime.Sub(civilDate(t.ScheduleDatetime))

	var exclude []string
	if !t.Pending {
		exclude = []string{t.ID}
	}

	for d := searchStart; d.Before(searchEnd); d = d.AddDate(0, 0, 1) {
		candidateAt := d.Add(timeOfDay)
		if !t.Event.ValidForDatetime(candidateAt) {
			continue
		}

		if employee.JobTitle == domain.JobTitleJuicerBarista {
			busy, err := e.hasJuicerEventOnDate(ctx, employee.ID, d)
			if err != nil {
				return false, err
			}
			if busy {
				continue
			}
		}

		result, err := e.validator.ValidateAssignment(ctx, t.Event, *employee, candidateAt, nil, exclude)
		if err != nil {
			return false, err
		}
		if !result.IsValid {
			continue
		}

		if t.Pending {
			if err := e.pending.UpdateDatetime(ctx, t.ID, candidateAt); err != nil {
				return false, err
			}
			if err := e.pending.IncrementBumpCount(ctx, t.ID); err != nil {
				return false, err
			}
		} else {
			if err := e.schedules.UpdateDatetime(ctx, t.ID, candidateAt); err != nil {
				return false, err
			}
			if err := e.schedules.IncrementBumpCount(ctx, t.ID); err != nil {
				return false, err
			}
		}
		e.st.recordBump(t.Event.ProjectRefNum)
		return true, nil
	}
	return false, nil
}

// vacate gives up t's slot outright: the occupant had no room to move
// forward, so it is pulled and re-recorded as a failure needing manual
// attention (it remains eligible for the rescue pass if still urgent).
func (e *Engine) vacate(ctx context.Context, t bumpTarget) error {
	reason := fmt.Sprintf("bumped from %s with no forward slot available", t.ScheduleDatetime.Format("2006-01-02 15:04"))
	if t.Pending {
		if err := e.pending.Delete(ctx, t.ID); err != nil {
			return err
		}
	} else {
		if err := e.schedules.Delete(ctx, t.ID); err != nil {
			return err
		}
	}
	e.st.recordBump(t.Event.ProjectRefNum)
	_, err := e.createFailedPendingAssignment(ctx, t.Event, reason)
	return err
}
