package engine

import (
	"sort"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// eventTypePriority is the tie-break table from spec.md §4.4.1: lower
// sorts first. Digital subtypes are resolved from the event's display
// name since EventTypeDigitals alone does not distinguish them.
func eventTypePriority(e domain.Event) int {
	switch {
	case e.EventType.IsJuicer():
		return 1
	case e.EventType == domain.EventTypeDigitals:
		switch domain.DetectDigitalSubtype(e.ProjectName) {
		case domain.DigitalSetup:
			return 2
		case domain.DigitalRefresh:
			return 3
		case domain.DigitalTeardown:
			return 5
		default:
			return 8
		}
	case e.EventType == domain.EventTypeFreeosk:
		return 4
	case e.EventType == domain.EventTypeCore:
		return 6
	case e.EventType == domain.EventTypeSupervisor:
		return 7
	default:
		return 9
	}
}

// sortByPriority orders events by (days_until_due ascending, type
// priority ascending), stably, per spec.md §4.4.1's queue ordering.
func sortByPriority(events []*domain.Event, now time.Time) {
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := events[i].DaysUntilDue(now), events[j].DaysUntilDue(now)
		if di != dj {
			return di < dj
		}
		return eventTypePriority(*events[i]) < eventTypePriority(*events[j])
	})
}
