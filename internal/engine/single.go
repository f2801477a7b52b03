package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// ScheduleSingleEvent runs the engine against exactly one event, outside
// a full batch pass — spec.md §4.4.4's manual single-event path, used
// when an operator wants an immediate placement attempt for one event
// without re-running the whole backlog. It opens its own SchedulerRun so
// the result is still subject to human approval like any other proposal.
// It returns the event's proposal, or its failure record when the event
// could not be placed.
func (e *Engine) ScheduleSingleEvent(ctx context.Context, eventRefNum int) (*domain.PendingAssignment, error) {
	event, err := e.events.GetByRefNum(ctx, eventRefNum)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	now := time.Now()
	if e.cfg.Timezone != nil {
		now = now.In(e.cfg.Timezone)
	}

	run := &domain.SchedulerRun{
		ID:        uuid.NewString(),
		RunType:   domain.RunTypeManual,
		StartedAt: now,
		Status:    domain.RunStatusRunning,
	}
	run, err = e.runs.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create scheduler run: %w", err)
	}
	e.run = run
	e.st = newRunState()
	e.supervisorIndex = map[string]*domain.Event{}
	e.validator.SetCurrentRun(run.ID)

	if err := e.dispatchSingle(ctx, *event, now); err != nil {
		msg := err.Error()
		run.ErrorMessage = &msg
		run.Status = domain.RunStatusFailed
		completedAt := time.Now()
		run.CompletedAt = &completedAt
		_ = e.runs.Update(ctx, run)
		return nil, err
	}

	completedAt := time.Now()
	run.CompletedAt = &completedAt
	run.Status = domain.RunStatusCompleted
	if err := e.runs.Update(ctx, run); err != nil {
		return nil, err
	}

	placed, err := e.pending.GetByEventRefNumForRuns(ctx, []string{run.ID}, event.ProjectRefNum)
	if err != nil || placed != nil {
		return placed, err
	}
	failed, err := e.pending.ListFailedByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range failed {
		if p.EventRefNum == event.ProjectRefNum {
			return p, nil
		}
	}
	return nil, nil
}

func (e *Engine) dispatchSingle(ctx context.Context, event domain.Event, now time.Time) error {
	switch {
	case event.EventType.IsJuicer():
		clock := juicerClock(e.cfg, event)
		ok, reason, err := e.scheduleJuicerEvent(ctx, event, clock, now)
		if err != nil {
			return err
		}
		if !ok {
			if reason == "" {
				reason = "no rotation employee (primary or backup) could be cleared for this event"
			}
			_, err := e.createFailedPendingAssignment(ctx, event, reason)
			return err
		}
		return nil
	case event.EventType == domain.EventTypeCore:
		placed, err := e.scheduleCoreEvent(ctx, event, now)
		if err != nil {
			return err
		}
		if placed == nil {
			_, err := e.createFailedPendingAssignment(ctx, event, "no available employee or bumpable slot within the scheduling window")
			return err
		}
		return e.pairSupervisorFor(ctx, event, *placed.ScheduleDatetime)
	case event.EventType == domain.EventTypeSupervisor:
		at := e.cfg.SupervisorTime.On(civilDate(event.StartDatetime))
		return e.scheduleSupervisorCheckpoint(ctx, event, at)
	case event.EventType == domain.EventTypeFreeosk:
		placed, err := e.scheduleSingleSlotWindow(ctx, event, e.cfg.FreeoskTime, now)
		if err != nil {
			return err
		}
		if !placed {
			_, err := e.createFailedPendingAssignment(ctx, event, "no Lead Event Specialist or Club Supervisor available within the scheduling window")
			return err
		}
		return nil
	case event.EventType == domain.EventTypeDigitals:
		placed, err := e.scheduleDigitalEvent(ctx, event, now)
		if err != nil {
			return err
		}
		if !placed {
			_, err := e.createFailedPendingAssignment(ctx, event, "no Lead available on the fixed start date for this digital event")
			return err
		}
		return nil
	default:
		date := civilDate(event.StartDatetime)
		if date.Before(civilDate(now)) {
			date = civilDate(now)
		}
		at := e.cfg.OtherTime.On(date)
		available, err := e.validator.GetAvailableEmployees(ctx, event, at)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			_, err := e.createFailedPendingAssignment(ctx, event, "no Lead Event Specialist or Club Supervisor available on the start date")
			return err
		}
		ranked := e.rankerImpl.Rank(event, candidatesFrom(available))
		if len(ranked) == 0 {
			_, err := e.createFailedPendingAssignment(ctx, event, "ranker excluded every available candidate")
			return err
		}
		_, err = e.createPendingAssignment(ctx, event, ranked[0].ID, at, false, nil, nil)
		return err
	}
}
