package engine

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// runWave3Freeosk places Freeosk digital-kiosk setups at the fixed daily
// time, walking the event's window for the first date a Lead is free.
func (e *Engine) runWave3Freeosk(ctx context.Context, events []*domain.Event, now time.Time) error {
	for _, ev := range events {
		placed, err := e.scheduleSingleSlotWindow(ctx, *ev, e.cfg.FreeoskTime, now)
		if err != nil {
			return err
		}
		if placed {
			continue
		}
		if _, err := e.createFailedPendingAssignment(ctx, *ev, "no Lead Event Specialist or Club Supervisor available within the scheduling window"); err != nil {
			return err
		}
	}
	return nil
}

// scheduleSingleSlotWindow tries one fixed time-of-day across an event's
// [start, due) window, stopping at the first date with an eligible,
// available employee. Used by waves whose time slot is a flat constant
// rather than a rotating set.
func (e *Engine) scheduleSingleSlotWindow(ctx context.Context, event domain.Event, clock Clock, now time.Time) (bool, error) {
	start := event.StartDatetime
	if start.Before(now) {
		start = now
	}
	for d := civilDate(start); d.Before(civilDate(event.DueDatetime)); d = d.AddDate(0, 0, 1) {
		candidateAt := clock.On(d)
		available, err := e.validator.GetAvailableEmployees(ctx, event, candidateAt)
		if err != nil {
			return false, err
		}
		if len(available) == 0 {
			continue
		}
		ranked := e.rankerImpl.Rank(event, candidatesFrom(available))
		if len(ranked) == 0 {
			continue
		}
		if _, err := e.createPendingAssignment(ctx, event, ranked[0].ID, candidateAt, false, nil, nil); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
