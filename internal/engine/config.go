// Package engine is the Scheduling Engine: the wave orchestrator that
// sequences event types, picks time slots, performs cascading bumps of
// already-scheduled less-urgent work, and pairs dependent events
// (Supervisor checkpoints to their parent Core events).
//
// Grounded on app/services/scheduling_engine.py in the retained reference
// material. Only the wired, currently-invoked code paths from that file
// are ported (spec.md §9's first Open Question: the engine codifies only
// the `_schedule_core_events_wave2_new` path, not the superseded
// `_schedule_core_events`/`_get_next_time_slot` original). Core slots
// are chosen least-busy-first from CoreTimeSlots (see nextCoreSlot in
// slots.go); there is no seeded round-robin index, and SundaySlots is
// carried in Config but nextCoreSlot does not consult it.
package engine

import "time"

// Clock is a time-of-day independent of any particular date.
type Clock struct {
	Hour   int
	Minute int
}

// On returns the datetime combining date's civil date with c's time of day.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// Config carries the static values named in spec.md §6.
type Config struct {
	SchedulingWindowDays int
	MaxBumpsPerEvent     int
	ShortNoticeDays      int // days_from_today <= this uses bump-only; default 3
	Timezone             *time.Location

	CoreTimeSlots     []Clock // the 8-block set
	SundaySlots       []Clock // reduced 2-slot set
	DigitalTimeSlots  []Clock // Setup/Refresh rotation, 4 slots
	TeardownTimeSlots []Clock // Teardown rotation, 8 slots

	JuicerProductionTime Clock
	JuicerSurveyTime     Clock
	JuicerDefaultTime    Clock
	FreeoskTime          Clock
	OtherTime            Clock
	SupervisorTime       Clock
}

// DefaultConfig mirrors the constants spec.md §6 lists.
func DefaultConfig(tz *time.Location) Config {
	quarterHour := func(h, m int) Clock { return Clock{Hour: h, Minute: m} }

	digitalSlots := make([]Clock, 4)
	for i := range digitalSlots {
		totalMin := 15 + i*15
		digitalSlots[i] = Clock{Hour: 10 + totalMin/60, Minute: totalMin % 60}
	}

	teardownSlots := make([]Clock, 8)
	for i := range teardownSlots {
		totalMin := i * 15
		teardownSlots[i] = Clock{Hour: 18 + totalMin/60, Minute: totalMin % 60}
	}

	return Config{
		SchedulingWindowDays: 3,
		MaxBumpsPerEvent:     3,
		ShortNoticeDays:      3,
		Timezone:             tz,
		CoreTimeSlots: []Clock{
			quarterHour(10, 15), quarterHour(10, 15),
			quarterHour(10, 45), quarterHour(10, 45),
			quarterHour(11, 15), quarterHour(11, 15),
			quarterHour(11, 45), quarterHour(11, 45),
		},
		SundaySlots:          []Clock{quarterHour(10, 45), quarterHour(11, 15)},
		DigitalTimeSlots:     digitalSlots,
		TeardownTimeSlots:    teardownSlots,
		JuicerProductionTime: quarterHour(9, 0),
		JuicerSurveyTime:     quarterHour(17, 0),
		JuicerDefaultTime:    quarterHour(9, 0),
		FreeoskTime:          quarterHour(10, 0),
		OtherTime:            quarterHour(11, 0),
		SupervisorTime:       quarterHour(12, 0),
	}
}
