package engine

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// runWave4Digital places Digitals events on their start date only — per
// spec.md §4.4, digital setups/refreshes/teardowns cannot be moved to a
// different day once due, unlike Core and Juicer events. Setup and
// Refresh go to the rotating Primary Lead on the 4-slot digital
// rotation; Teardown goes to the rotating Secondary Lead on the 8-slot
// teardown rotation; an unrecognized name falls back to the Primary
// Lead digital rotation, matching the priority-table's catch-all.
func (e *Engine) runWave4Digital(ctx context.Context, events []*domain.Event, now time.Time) error {
	for _, ev := range events {
		placed, err := e.scheduleDigitalEvent(ctx, *ev, now)
		if err != nil {
			return err
		}
		if placed {
			continue
		}
		if _, err := e.createFailedPendingAssignment(ctx, *ev, "no Lead available on the fixed start date for this digital event"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) scheduleDigitalEvent(ctx context.Context, event domain.Event, now time.Time) (bool, error) {
	date := civilDate(event.StartDatetime)
	if date.Before(civilDate(now)) {
		date = civilDate(now)
	}

	subtype := domain.DetectDigitalSubtype(event.ProjectName)

	var lead *domain.Employee
	var at time.Time
	var err error
	if subtype == domain.DigitalTeardown {
		lead, err = e.rotations.GetSecondaryLead(ctx, date)
		at = nextTeardownSlot(e.cfg, e.st, date).On(date)
	} else {
		lead, err = e.rotations.GetRotationEmployee(ctx, date, domain.RotationPrimaryLead, false)
		at = nextDigitalSlot(e.cfg, e.st, date).On(date)
	}
	if err != nil {
		return false, err
	}

	if lead != nil {
		placed, err := e.tryAssignFixedDate(ctx, event, *lead, at)
		if err != nil || placed {
			return placed, err
		}
	}

	// Fall back to ClubSupervisor on unavailability, per spec.md §4.4.
	supervisors, err := e.employees.ListActiveByJobTitle(ctx, domain.JobTitleClubSupervisor)
	if err != nil {
		return false, err
	}
	for _, cs := range supervisors {
		placed, err := e.tryAssignFixedDate(ctx, event, *cs, at)
		if err != nil {
			return false, err
		}
		if placed {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) tryAssignFixedDate(ctx context.Context, event domain.Event, employee domain.Employee, at time.Time) (bool, error) {
	result, err := e.validator.ValidateAssignment(ctx, event, employee, at, nil, nil)
	if err != nil {
		return false, err
	}
	if !result.IsValid {
		return false, nil
	}
	if _, err := e.createPendingAssignment(ctx, event, employee.ID, at, false, nil, nil); err != nil {
		return false, err
	}
	return true, nil
}
