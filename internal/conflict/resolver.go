// Package conflict implements the Conflict Resolver: identifying
// bumpable events by priority score and validating swap legality.
//
// Grounded on app/services/conflict_resolver.py in the retained
// reference material.
package conflict

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/validation"
)

// MinDaysToDue is the closest an event may come to its due date and
// still be considered bumpable (spec.md §4.3). A var, not a const, so
// main can override it from config.Config.MinDaysToDue at startup.
var MinDaysToDue = 2

// Scored pairs an event with its computed priority score.
type Scored struct {
	Event domain.Event
	Score int
}

// Resolver finds events to bump and validates proposed swaps.
type Resolver struct {
	schedules repository.ScheduleRepository
	events    repository.EventRepository
	employees repository.EmployeeRepository
}

func NewResolver(schedules repository.ScheduleRepository, events repository.EventRepository, employees repository.EmployeeRepository) *Resolver {
	return &Resolver{schedules: schedules, events: events, employees: employees}
}

// CalculatePriorityScore scores an event for bump-eligibility purposes:
// lower = more urgent. Never negative.
func CalculatePriorityScore(event domain.Event, referenceTime time.Time) int {
	days := event.DaysUntilDue(referenceTime)
	if days < 0 {
		return 0
	}
	return days
}

// FindBumpableEvents returns committed schedules on targetDate (optionally
// scoped to one employee), excluding Supervisor events and anything due
// within MinDaysToDue days, sorted by score descending (least urgent —
// i.e. most bumpable — first).
func (r *Resolver) FindBumpableEvents(ctx context.Context, targetDate time.Time, employeeID *string) ([]Scored, error) {
	schedules, err := r.schedules.ListOnDate(ctx, targetDate, employeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var out []Scored
	for _, s := range schedules {
		event, err := r.events.GetByRefNum(ctx, s.EventRefNum)
		if err != nil {
			continue
		}
		if event.EventType == domain.EventTypeSupervisor {
			continue
		}
		if event.DaysUntilDue(now) < MinDaysToDue {
			continue
		}
		out = append(out, Scored{Event: *event, Score: CalculatePriorityScore(*event, now)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// ResolveConflict proposes bumping the most-bumpable event on targetDate
// to make room for highPriorityEvent, provided the bumped event is
// genuinely less urgent. Returns nil if no suitable candidate exists.
func (r *Resolver) ResolveConflict(ctx context.Context, highPriorityEvent domain.Event, targetDate time.Time, employeeID string) (*validation.SwapProposal, error) {
	bumpable, err := r.FindBumpableEvents(ctx, targetDate, &employeeID)
	if err != nil {
		return nil, err
	}
	if len(bumpable) == 0 {
		return nil, nil
	}

	low := bumpable[0]
	now := time.Now()
	highScore := CalculatePriorityScore(highPriorityEvent, now)
	if low.Score <= highScore {
		return nil, nil
	}

	return &validation.SwapProposal{
		HighPriorityEventRef: highPriorityEvent.ProjectRefNum,
		LowPriorityEventRef:  low.Event.ProjectRefNum,
		Reason: fmt.Sprintf("Event %d due in %d days, Event %d due in %d days",
			highPriorityEvent.ProjectRefNum, highScore, low.Event.ProjectRefNum, low.Score),
		EmployeeID:   employeeID,
		ProposedDate: targetDate.Format("2006-01-02"),
	}, nil
}

// ValidateSwap re-checks strict priority ordering and the MinDaysToDue
// rule for a proposed (high, low) bump pair.
func ValidateSwap(high, low domain.Event) bool {
	now := time.Now()
	if CalculatePriorityScore(low, now) <= CalculatePriorityScore(high, now) {
		return false
	}
	return low.DaysUntilDue(now) >= MinDaysToDue
}

// FindAlternativeDates enumerates working weekdays in [event.Start,
// event.Due) for which employeeID has no existing committed schedule.
func (r *Resolver) FindAlternativeDates(ctx context.Context, event domain.Event, employeeID string, excludeDates []time.Time) ([]time.Time, error) {
	excluded := make(map[string]bool, len(excludeDates))
	for _, d := range excludeDates {
		excluded[d.Format("2006-01-02")] = true
	}

	var out []time.Time
	for current := event.StartDatetime; current.Before(event.DueDatetime); current = current.AddDate(0, 0, 1) {
		if excluded[current.Format("2006-01-02")] {
			continue
		}
		if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
			continue
		}
		existing, err := r.schedules.ListForEmployeeBetween(ctx, employeeID, current, current.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
		if len(existing) == 0 {
			out = append(out, current)
		}
	}
	return out, nil
}

// CapacityStatus reports scheduling load for a specific date. Supplements
// spec.md's component table, which names the operation in §4.3 but the
// original's full reply shape was dropped from the distillation.
type CapacityStatus struct {
	Date            string
	ScheduledCount  int
	TotalEmployees  int
	CapacityUsed    float64
	IsOverbooked    bool
}

func (r *Resolver) CapacityStatus(ctx context.Context, targetDate time.Time) (CapacityStatus, error) {
	scheduled, err := r.schedules.ListOnDate(ctx, targetDate, nil)
	if err != nil {
		return CapacityStatus{}, err
	}

	specialists, err := r.employees.ListActiveByJobTitle(ctx, domain.JobTitleEventSpecialist)
	if err != nil {
		return CapacityStatus{}, err
	}
	leads, err := r.employees.ListActiveByJobTitle(ctx, domain.JobTitleLeadEventSpecialist)
	if err != nil {
		return CapacityStatus{}, err
	}
	total := len(specialists) + len(leads)
	denom := total
	if denom < 1 {
		denom = 1
	}

	return CapacityStatus{
		Date:           targetDate.Format("2006-01-02"),
		ScheduledCount: len(scheduled),
		TotalEmployees: total,
		CapacityUsed:   float64(len(scheduled)) / float64(denom),
		IsOverbooked:   len(scheduled) > total,
	}, nil
}
