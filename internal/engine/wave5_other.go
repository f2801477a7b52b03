package engine

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// runWave5Other is the catch-all for event types spec.md does not give a
// dedicated wave: scheduled at cfg.OtherTime on the event's own start date (no
// window search), open to any Lead Event Specialist or Club Supervisor.
func (e *Engine) runWave5Other(ctx context.Context, events []*domain.Event, now time.Time) error {
	for _, ev := range events {
		date := civilDate(ev.StartDatetime)
		if date.Before(civilDate(now)) {
			date = civilDate(now)
		}
		at := e.cfg.OtherTime.On(date)

		available, err := e.validator.GetAvailableEmployees(ctx, *ev, at)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			if _, err := e.createFailedPendingAssignment(ctx, *ev, "no Lead Event Specialist or Club Supervisor available on the start date"); err != nil {
				return err
			}
			continue
		}

		ranked := e.rankerImpl.Rank(*ev, candidatesFrom(available))
		if len(ranked) == 0 {
			if _, err := e.createFailedPendingAssignment(ctx, *ev, "ranker excluded every available candidate"); err != nil {
				return err
			}
			continue
		}
		if _, err := e.createPendingAssignment(ctx, *ev, ranked[0].ID, at, false, nil, nil); err != nil {
			return err
		}
	}
	return nil
}
