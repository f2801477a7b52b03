package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// pairSupervisorFor looks up the Supervisor checkpoint sharing coreEvent's
// 6-digit event number (spec.md §4.4.3) and, if one is still pending,
// schedules it at the same moment the paired Core event was placed.
// Consumed entries are removed from the index so the orphaned pass below
// does not see them again.
func (e *Engine) pairSupervisorFor(ctx context.Context, coreEvent domain.Event, coreScheduledAt time.Time) error {
	num, ok := domain.ExtractEventNumber(coreEvent.ProjectName)
	if !ok {
		return nil
	}
	sup, found := e.supervisorIndex[num]
	if !found {
		return nil
	}
	delete(e.supervisorIndex, num)

	return e.scheduleSupervisorCheckpoint(ctx, *sup, coreScheduledAt)
}

// runOrphanedSupervisorPass handles Supervisor events whose paired Core
// event either failed to schedule inline or was scheduled in a previous
// run. It looks up the matching Core event's scheduled date — from this
// run's own pending proposals first, then the committed Schedule
// table — and checkpoints the Supervisor on that date. A Supervisor with
// no event number, or whose matching Core was never scheduled anywhere,
// is skipped entirely: it is never scheduled standalone on its own start
// date. Grounded on original_source's `_schedule_orphaned_supervisor_events`
// (scheduling_engine.py:2306-2340).
func (e *Engine) runOrphanedSupervisorPass(ctx context.Context, backlog []*domain.Event, now time.Time) error {
	for _, ev := range backlog {
		if ev.EventType != domain.EventTypeSupervisor {
			continue
		}
		num, ok := domain.ExtractEventNumber(ev.ProjectName)
		if !ok {
			continue // no event number to match against — nothing to pair with
		}
		if _, stillPending := e.supervisorIndex[num]; !stillPending {
			continue // paired and already scheduled above
		}
		delete(e.supervisorIndex, num)

		coreAt, found, err := e.findScheduledCoreDate(ctx, num)
		if err != nil {
			return err
		}
		if !found {
			continue // no scheduled Core found anywhere — skip, do not schedule standalone
		}

		if err := e.scheduleSupervisorCheckpoint(ctx, *ev, coreAt); err != nil {
			return err
		}
	}
	return nil
}

// findScheduledCoreDate searches this run's own live pending proposals,
// then the permanent/committed Schedule table, for a Core event whose
// extracted event number matches num. Grounded on original_source's
// `_find_scheduled_core_date` (scheduling_engine.py:2344-2379).
func (e *Engine) findScheduledCoreDate(ctx context.Context, num string) (time.Time, bool, error) {
	events, err := e.events.ListAll(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	var coreEvents []*domain.Event
	for _, cand := range events {
		if cand.EventType != domain.EventTypeCore {
			continue
		}
		if n, ok := domain.ExtractEventNumber(cand.ProjectName); ok && n == num {
			coreEvents = append(coreEvents, cand)
		}
	}

	for _, core := range coreEvents {
		p, err := e.pending.GetByEventRefNumForRuns(ctx, []string{e.run.ID}, core.ProjectRefNum)
		if err != nil {
			return time.Time{}, false, err
		}
		if p != nil && !p.Failed() && p.Status != domain.PendingStatusSuperseded && p.ScheduleDatetime != nil {
			return *p.ScheduleDatetime, true, nil
		}
	}

	for _, core := range coreEvents {
		s, err := e.schedules.GetByEventRefNum(ctx, core.ProjectRefNum)
		if err != nil {
			return time.Time{}, false, err
		}
		if s != nil {
			return s.ScheduleDatetime, true, nil
		}
	}

	return time.Time{}, false, nil
}

// scheduleSupervisorCheckpoint tries every active Club Supervisor first,
// then falls back to that date's primary Lead (spec.md §4.4.3), then
// fails.
func (e *Engine) scheduleSupervisorCheckpoint(ctx context.Context, event domain.Event, at time.Time) error {
	supervisors, err := e.employees.ListActiveByJobTitle(ctx, domain.JobTitleClubSupervisor)
	if err != nil {
		return err
	}
	for _, cs := range supervisors {
		result, err := e.validator.ValidateAssignment(ctx, event, *cs, at, nil, nil)
		if err != nil {
			return err
		}
		if result.IsValid {
			_, err := e.createPendingAssignment(ctx, event, cs.ID, at, false, nil, nil)
			return err
		}
	}

	primaryLead, err := e.rotations.GetRotationEmployee(ctx, civilDate(at), domain.RotationPrimaryLead, false)
	if err != nil {
		return err
	}
	if primaryLead != nil {
		result, err := e.validator.ValidateAssignment(ctx, event, *primaryLead, at, nil, nil)
		if err != nil {
			return err
		}
		if result.IsValid {
			_, err := e.createPendingAssignment(ctx, event, primaryLead.ID, at, false, nil, nil)
			return err
		}
	}

	_, err = e.createFailedPendingAssignment(ctx, event, fmt.Sprintf("no club supervisor or primary lead available to checkpoint at %s", at.Format("2006-01-02 15:04")))
	return err
}
