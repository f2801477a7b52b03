package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/validation"
)

// runWave1Juicer schedules the three Juicer subtypes against the daily
// Juicer rotation, trying the primary rotation employee, then the
// configured backup, bumping the rotation employee's own conflicting
// Core assignment when the only thing blocking them is a
// DailyLimit or AlreadyScheduled violation (spec.md §4.4 "Wave 1").
func (e *Engine) runWave1Juicer(ctx context.Context, events []*domain.Event, now time.Time) error {
	for _, ev := range events {
		clock := juicerClock(e.cfg, *ev)
		scheduled, reason, err := e.scheduleJuicerEvent(ctx, *ev, clock, now)
		if err != nil {
			return err
		}
		if scheduled {
			continue
		}
		if reason == "" {
			reason = "no rotation employee (primary or backup) could be cleared for this event"
		}
		if _, err := e.createFailedPendingAssignment(ctx, *ev, reason); err != nil {
			return err
		}
	}
	return nil
}

func juicerClock(cfg Config, event domain.Event) Clock {
	switch event.EventType {
	case domain.EventTypeJuicerProduction:
		return cfg.JuicerProductionTime
	case domain.EventTypeJuicerSurvey:
		return cfg.JuicerSurveyTime
	default:
		return cfg.JuicerDefaultTime
	}
}

func (e *Engine) scheduleJuicerEvent(ctx context.Context, event domain.Event, clock Clock, now time.Time) (bool, string, error) {
	start := event.StartDatetime
	if start.Before(now) {
		start = now
	}

	var lastReason string
	for d := civilDate(start); d.Before(civilDate(event.DueDatetime)); d = d.AddDate(0, 0, 1) {
		candidateAt := clock.On(d)

		primary, backup, err := e.rotations.GetRotationWithBackup(ctx, d, domain.RotationJuicer)
		if err != nil {
			return false, "", err
		}

		for _, candidate := range []*domain.Employee{primary, backup} {
			if candidate == nil {
				continue
			}
			ok, reason, err := e.tryJuicerCandidate(ctx, event, *candidate, candidateAt, d, now)
			if err != nil {
				return false, "", err
			}
			if ok {
				return true, "", nil
			}
			if reason != "" {
				lastReason = reason
			}
		}
	}
	return false, lastReason, nil
}

func (e *Engine) tryJuicerCandidate(ctx context.Context, event domain.Event, candidate domain.Employee, candidateAt time.Time, date time.Time, now time.Time) (bool, string, error) {
	result, err := e.validator.ValidateAssignment(ctx, event, candidate, candidateAt, nil, nil)
	if err != nil {
		return false, "", err
	}
	if result.IsValid {
		_, err := e.createPendingAssignment(ctx, event, candidate.ID, candidateAt, false, nil, nil)
		return err == nil, "", err
	}

	if !result.HasOnly(validation.ConstraintDailyLimit, validation.ConstraintAlreadyScheduled) {
		return false, firstHardViolationMessage(result), nil
	}

	bumpedRef, err := e.freeEmployeeSlot(ctx, event, candidate.ID, date, now)
	if err != nil {
		return false, "", err
	}
	if bumpedRef == nil {
		return false, firstHardViolationMessage(result), nil
	}

	reason := fmt.Sprintf("juicer event %d bumped event %d to clear the rotation employee's slot", event.ProjectRefNum, *bumpedRef)
	if _, err := e.createPendingAssignment(ctx, event, candidate.ID, candidateAt, true, bumpedRef, &reason); err != nil {
		return false, "", err
	}
	return true, "", nil
}

// firstHardViolationMessage surfaces the first blocking violation's text
// so a wave's failure reason names the actual constraint (e.g. "is a
// Company Holiday") rather than a generic placeholder.
func firstHardViolationMessage(result *validation.Result) string {
	hard := result.HardViolations()
	if len(hard) == 0 {
		return ""
	}
	return hard[0].Message
}

// freeEmployeeSlot finds employeeID's own Core assignment on date and
// clears it for event (forward-moving it first if possible), returning the
// bumped event's ref num, or nil if employeeID has no such assignment to
// clear.
func (e *Engine) freeEmployeeSlot(ctx context.Context, event domain.Event, employeeID string, date time.Time, now time.Time) (*int, error) {
	targets, err := e.findBumpTargets(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.EmployeeID != employeeID {
			continue
		}
		if t.BumpCount >= e.cfg.MaxBumpsPerEvent {
			continue
		}
		moved, err := e.tryForwardMove(ctx, event, t)
		if err != nil {
			return nil, err
		}
		if !moved {
			if err := e.vacate(ctx, t); err != nil {
				return nil, err
			}
		}
		ref := t.Event.ProjectRefNum
		return &ref, nil
	}
	return nil, nil
}
