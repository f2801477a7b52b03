package engine

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/ranker"
)

func candidatesFrom(employees []*domain.Employee) []ranker.Candidate {
	out := make([]ranker.Candidate, 0, len(employees))
	for _, emp := range employees {
		out = append(out, ranker.Candidate{Employee: *emp})
	}
	return out
}

// candidatesWithJuicerFlag is candidatesFrom plus the AlreadyBusy flag the
// RuleBased ranker needs to skip Juicer Baristas who already have a
// Juicer event that day (spec.md §4.4.2's "Juicers-who-don't-have-a-
// juicer-event-that-day" pool rule).
func (e *Engine) candidatesWithJuicerFlag(ctx context.Context, employees []*domain.Employee, date time.Time) ([]ranker.Candidate, error) {
	out := make([]ranker.Candidate, 0, len(employees))
	for _, emp := range employees {
		busy, err := e.hasJuicerEventOnDate(ctx, emp.ID, date)
		if err != nil {
			return nil, err
		}
		out = append(out, ranker.Candidate{Employee: *emp, AlreadyBusy: busy})
	}
	return out, nil
}

func (e *Engine) hasJuicerEventOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	committed, err := e.schedules.ListOnDate(ctx, date, &employeeID)
	if err != nil {
		return false, err
	}
	for _, s := range committed {
		if s.EventType.IsJuicer() {
			return true, nil
		}
	}

	pend, err := e.pending.ListOnDateForRuns(ctx, []string{e.run.ID}, date, &employeeID)
	if err != nil {
		return false, err
	}
	for _, p := range pend {
		if p.EventType.IsJuicer() && !p.Failed() && p.Status != domain.PendingStatusSuperseded {
			return true, nil
		}
	}
	return false, nil
}
