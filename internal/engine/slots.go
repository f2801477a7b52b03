package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
)

// nextCoreSlot returns the Core time-of-day on date with the fewest
// employees already scheduled against it — committed schedules plus this
// run's own still-live pending proposals — recomputed fresh on every
// call. Grounded on original_source's `_find_least_busy_time_slot`
// (scheduling_engine.py:1508-1534): no seeded cursor, no day-of-week
// special case, ties keep the first (earliest) slot.
func nextCoreSlot(ctx context.Context, schedules repository.ScheduleRepository, pending repository.PendingAssignmentRepository, runID string, cfg Config, date time.Time) (Clock, error) {
	slots := cfg.CoreTimeSlots
	if len(slots) == 0 {
		return Clock{Hour: 10, Minute: 15}, nil
	}

	committed, err := schedules.ListOnDate(ctx, date, nil)
	if err != nil {
		return Clock{}, err
	}
	pend, err := pending.ListOnDateForRuns(ctx, []string{runID}, date, nil)
	if err != nil {
		return Clock{}, err
	}

	counts := make(map[string]int, len(slots))
	for _, s := range committed {
		counts[clockKey(s.ScheduleDatetime)]++
	}
	for _, p := range pend {
		if p.Failed() || p.Status == domain.PendingStatusSuperseded || p.ScheduleDatetime == nil {
			continue
		}
		counts[clockKey(*p.ScheduleDatetime)]++
	}

	best := slots[0]
	bestCount := counts[fmt.Sprintf("%02d:%02d", best.Hour, best.Minute)]
	for _, s := range slots[1:] {
		c := counts[fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)]
		if c < bestCount {
			best = s
			bestCount = c
		}
	}
	return best, nil
}

func clockKey(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// nextDigitalSlot round-robins the 4-slot Setup/Refresh rotation, no
// Sunday special case and no seeding from committed counts (the source
// only seeds the Core rotation).
func nextDigitalSlot(cfg Config, st *runState, date time.Time) Clock {
	key := date.Format("2006-01-02")
	idx := st.digitalSlotIndex[key]
	slot := cfg.DigitalTimeSlots[idx%len(cfg.DigitalTimeSlots)]
	st.digitalSlotIndex[key] = (idx + 1) % len(cfg.DigitalTimeSlots)
	return slot
}

// nextTeardownSlot round-robins the 8-slot Teardown rotation.
func nextTeardownSlot(cfg Config, st *runState, date time.Time) Clock {
	key := date.Format("2006-01-02")
	idx := st.teardownSlotIndex[key]
	slot := cfg.TeardownTimeSlots[idx%len(cfg.TeardownTimeSlots)]
	st.teardownSlotIndex[key] = (idx + 1) % len(cfg.TeardownTimeSlots)
	return slot
}
