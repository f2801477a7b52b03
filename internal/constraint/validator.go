// Package constraint implements the Constraint Validator: evaluating a
// proposed (event, employee, datetime) triple against the hard/soft
// constraint hierarchy in spec.md §4.2, including cross-run
// pending-assignment awareness.
//
// Grounded on app/services/constraint_validator.py in the retained
// reference material; restructured around explicit repository
// interfaces the way the teacher repo's usecase layer depends on
// repository.JobRepository rather than a concrete store.
package constraint

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/validation"
)

// Config carries the static limits named in spec.md §6.
type Config struct {
	MaxCorePerDay  int
	MaxCorePerWeek int
	Timezone       *time.Location
}

// leadOnlyEventTypes require a LeadEventSpecialist or ClubSupervisor.
var leadOnlyEventTypes = map[domain.EventType]bool{
	domain.EventTypeFreeosk:  true,
	domain.EventTypeDigitals: true,
	domain.EventTypeOther:    true,
}

// overlapBlockingTypes are the only event types whose intervals are
// checked for time overlap; Supervisor checkpoints are exempt (spec §4.2).
var overlapBlockingTypes = map[domain.EventType]bool{
	domain.EventTypeCore:             true,
	domain.EventTypeJuicerProduction: true,
}

// Validator evaluates assignment triples. One instance is reused across
// an engine run; SetCurrentRun records the run's ID and drops the cached
// active-run set, so the next cross-run pending-assignment query reloads
// it. That set includes the current run itself.
type Validator struct {
	events       repository.EventRepository
	schedules    repository.ScheduleRepository
	pending      repository.PendingAssignmentRepository
	runs         repository.RunRepository
	availability repository.AvailabilityRepository
	employees    repository.EmployeeRepository
	cfg          Config

	currentRunID      string
	activeRunIDsCache []string
	cacheValid        bool
}

func NewValidator(
	events repository.EventRepository,
	schedules repository.ScheduleRepository,
	pending repository.PendingAssignmentRepository,
	runs repository.RunRepository,
	availability repository.AvailabilityRepository,
	employees repository.EmployeeRepository,
	cfg Config,
) *Validator {
	return &Validator{
		events:       events,
		schedules:    schedules,
		pending:      pending,
		runs:         runs,
		availability: availability,
		employees:    employees,
		cfg:          cfg,
	}
}

// SetCurrentRun memoizes which run is executing and invalidates the
// active-run-IDs cache, per the memoization note in spec.md §5.
func (v *Validator) SetCurrentRun(runID string) {
	v.currentRunID = runID
	v.cacheValid = false
}

func (v *Validator) activeRunIDs(ctx context.Context) ([]string, error) {
	if v.cacheValid {
		return v.activeRunIDsCache, nil
	}
	ids, err := v.runs.ListActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	v.activeRunIDsCache = ids
	v.cacheValid = true
	return ids, nil
}

// ValidateAssignment runs every constraint check, in the fixed order
// spec.md mandates, and returns the accumulated result. durationMinutes,
// if nil, defaults to event.EstimatedDurationMinutes. excludeScheduleIDs
// removes those committed schedule IDs from the DailyLimit and
// AlreadyScheduled checks, supporting in-place trades.
func (v *Validator) ValidateAssignment(
	ctx context.Context,
	event domain.Event,
	employee domain.Employee,
	scheduleDatetime time.Time,
	durationMinutes *int,
	excludeScheduleIDs []string,
) (*validation.Result, error) {
	duration := event.EstimatedDurationMinutes
	if durationMinutes != nil {
		duration = *durationMinutes
	}

	result := &validation.Result{IsValid: true}

	if v, ok := v.checkPastDate(scheduleDatetime); ok {
		result.AddViolation(v)
	}
	holiday, err := v.checkCompanyHoliday(ctx, scheduleDatetime)
	if err != nil {
		return nil, err
	}
	if holiday != nil {
		result.AddViolation(*holiday)
	}
	timeOff, err := v.checkTimeOff(ctx, employee, scheduleDatetime)
	if err != nil {
		return nil, err
	}
	if timeOff != nil {
		result.AddViolation(*timeOff)
	}
	avail, err := v.checkAvailability(ctx, employee, scheduleDatetime)
	if err != nil {
		return nil, err
	}
	if avail != nil {
		result.AddViolation(*avail)
	}
	if role, ok := v.checkRole(event, employee); ok {
		result.AddViolation(role)
	}
	dailyLimit, err := v.checkDailyLimit(ctx, employee, scheduleDatetime, excludeScheduleIDs)
	if err != nil {
		return nil, err
	}
	if dailyLimit != nil {
		result.AddViolation(*dailyLimit)
	}
	weeklyLimit, err := v.checkWeeklyLimit(ctx, employee, scheduleDatetime, excludeScheduleIDs)
	if err != nil {
		return nil, err
	}
	if weeklyLimit != nil {
		result.AddViolation(*weeklyLimit)
	}
	already, err := v.checkAlreadyScheduled(ctx, event, employee, scheduleDatetime, duration, excludeScheduleIDs)
	if err != nil {
		return nil, err
	}
	if already != nil {
		result.AddViolation(*already)
	}
	if due, ok := v.checkDueDate(event, scheduleDatetime); ok {
		result.AddViolation(due)
	}

	return result, nil
}

func (v *Validator) today() time.Time {
	now := time.Now()
	if v.cfg.Timezone != nil {
		now = now.In(v.cfg.Timezone)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (v *Validator) checkPastDate(scheduleDatetime time.Time) (validation.Violation, bool) {
	if civilDate(scheduleDatetime).Before(v.today()) {
		return validation.Violation{
			Type:     validation.ConstraintPastDate,
			Message:  fmt.Sprintf("%s is in the past", scheduleDatetime.Format("2006-01-02")),
			Severity: validation.SeverityHard,
			Details:  map[string]any{"date": scheduleDatetime.Format("2006-01-02")},
		}, true
	}
	return validation.Violation{}, false
}

func (v *Validator) checkCompanyHoliday(ctx context.Context, scheduleDatetime time.Time) (*validation.Violation, error) {
	isHoliday, err := v.availability.IsCompanyHoliday(ctx, scheduleDatetime)
	if err != nil {
		return nil, err
	}
	if !isHoliday {
		return nil, nil
	}
	return &validation.Violation{
		Type:     validation.ConstraintCompanyHoliday,
		Message:  fmt.Sprintf("%s is a Company Holiday", scheduleDatetime.Format("2006-01-02")),
		Severity: validation.SeverityHard,
	}, nil
}

func (v *Validator) checkTimeOff(ctx context.Context, employee domain.Employee, scheduleDatetime time.Time) (*validation.Violation, error) {
	off, err := v.availability.GetTimeOff(ctx, employee.ID, scheduleDatetime)
	if err != nil {
		return nil, err
	}
	if off == nil {
		return nil, nil
	}
	return &validation.Violation{
		Type:     validation.ConstraintTimeOff,
		Message:  fmt.Sprintf("%s is on time off", employee.Name),
		Severity: validation.SeverityHard,
	}, nil
}

func (v *Validator) checkAvailability(ctx context.Context, employee domain.Employee, scheduleDatetime time.Time) (*validation.Violation, error) {
	wa, err := v.availability.GetWeeklyAvailability(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if wa.ForWeekday(domain.WeekdayIndex(scheduleDatetime)) {
		return nil, nil
	}
	return &validation.Violation{
		Type:     validation.ConstraintAvailability,
		Message:  fmt.Sprintf("%s is not available on %s", employee.Name, scheduleDatetime.Weekday()),
		Severity: validation.SeverityHard,
	}, nil
}

func (v *Validator) checkRole(event domain.Event, employee domain.Employee) (validation.Violation, bool) {
	switch {
	case event.EventType.IsJuicer():
		if !employee.IsJuicer() {
			return validation.Violation{
				Type:     validation.ConstraintRole,
				Message:  fmt.Sprintf("%s requires a Juicer Barista or Club Supervisor", event.EventType),
				Severity: validation.SeverityHard,
			}, true
		}
	case leadOnlyEventTypes[event.EventType]:
		if !employee.IsLead() {
			return validation.Violation{
				Type:     validation.ConstraintRole,
				Message:  fmt.Sprintf("%s requires a Lead Event Specialist or Club Supervisor", event.EventType),
				Severity: validation.SeverityHard,
			}, true
		}
	}

	if employee.JobTitle == domain.JobTitleClubSupervisor {
		allowed := event.EventType == domain.EventTypeSupervisor ||
			event.EventType == domain.EventTypeDigitals ||
			event.EventType == domain.EventTypeFreeosk ||
			event.EventType.IsJuicer()
		if !allowed {
			return validation.Violation{
				Type:     validation.ConstraintRole,
				Message:  fmt.Sprintf("Club Supervisor assigned outside their usual %s event types", event.EventType),
				Severity: validation.SeveritySoft,
			}, true
		}
	}
	return validation.Violation{}, false
}

func (v *Validator) checkDailyLimit(ctx context.Context, employee domain.Employee, scheduleDatetime time.Time, exclude []string) (*validation.Violation, error) {
	count, err := v.countCoreOnDate(ctx, employee.ID, scheduleDatetime, exclude)
	if err != nil {
		return nil, err
	}
	if count < v.cfg.MaxCorePerDay {
		return nil, nil
	}
	return &validation.Violation{
		Type:     validation.ConstraintDailyLimit,
		Message:  fmt.Sprintf("%s already has %d Core event(s) on %s", employee.Name, count, scheduleDatetime.Format("2006-01-02")),
		Severity: validation.SeverityHard,
		Details:  map[string]any{"count": count, "limit": v.cfg.MaxCorePerDay},
	}, nil
}

func (v *Validator) checkWeeklyLimit(ctx context.Context, employee domain.Employee, scheduleDatetime time.Time, exclude []string) (*validation.Violation, error) {
	weekStart := domain.WeekStart(civilDate(scheduleDatetime))
	count := 0
	for d := 0; d < 7; d++ {
		day := weekStart.AddDate(0, 0, d)
		n, err := v.countCoreOnDate(ctx, employee.ID, day, exclude)
		if err != nil {
			return nil, err
		}
		count += n
	}
	if count < v.cfg.MaxCorePerWeek {
		return nil, nil
	}
	return &validation.Violation{
		Type:     validation.ConstraintDailyLimit,
		Message:  fmt.Sprintf("%s already has %d Core events this week", employee.Name, count),
		Severity: validation.SeverityHard,
		Details:  map[string]any{"count": count, "limit": v.cfg.MaxCorePerWeek},
	}, nil
}

// countCoreOnDate counts committed + active-run-pending Core assignments
// for employeeID on the given civil date, excluding any committed
// schedule IDs in exclude and any pending row that has failed or been
// superseded.
func (v *Validator) countCoreOnDate(ctx context.Context, employeeID string, date time.Time, exclude []string) (int, error) {
	count := 0

	committed, err := v.schedules.ListOnDate(ctx, date, &employeeID)
	if err != nil {
		return 0, err
	}
	for _, s := range committed {
		if s.EventType != domain.EventTypeCore {
			continue
		}
		if slices.Contains(exclude, s.ID) {
			continue
		}
		count++
	}

	runIDs, err := v.activeRunIDs(ctx)
	if err != nil {
		return 0, err
	}
	pend, err := v.pending.ListOnDateForRuns(ctx, runIDs, date, &employeeID)
	if err != nil {
		return 0, err
	}
	for _, p := range pend {
		if p.EventType != domain.EventTypeCore || p.Failed() || p.Status == domain.PendingStatusSuperseded {
			continue
		}
		count++
	}

	return count, nil
}

func (v *Validator) checkAlreadyScheduled(ctx context.Context, event domain.Event, employee domain.Employee, scheduleDatetime time.Time, durationMinutes int, exclude []string) (*validation.Violation, error) {
	if event.EventType == domain.EventTypeSupervisor {
		// 5-minute checkpoints paired with Core events never block on overlap.
		return nil, nil
	}

	proposedStart := scheduleDatetime
	proposedEnd := scheduleDatetime.Add(time.Duration(durationMinutes) * time.Minute)

	employeeID := employee.ID

	committed, err := v.schedules.ListOnDate(ctx, scheduleDatetime, &employeeID)
	if err != nil {
		return nil, err
	}
	for _, s := range committed {
		if !overlapBlockingTypes[s.EventType] || slices.Contains(exclude, s.ID) {
			continue
		}
		existingEnd := s.ScheduleDatetime.Add(estimatedOverlapWindow(s.EventType))
		if proposedStart.Before(existingEnd) && proposedEnd.After(s.ScheduleDatetime) {
			return overlapViolation(employee, s.ScheduleDatetime), nil
		}
	}

	runIDs, err := v.activeRunIDs(ctx)
	if err != nil {
		return nil, err
	}
	pend, err := v.pending.ListOnDateForRuns(ctx, runIDs, scheduleDatetime, &employeeID)
	if err != nil {
		return nil, err
	}
	for _, p := range pend {
		if !overlapBlockingTypes[p.EventType] || p.Failed() || p.Status == domain.PendingStatusSuperseded {
			continue
		}
		existingEnd := p.GetScheduleDatetime().Add(estimatedOverlapWindow(p.EventType))
		if proposedStart.Before(existingEnd) && proposedEnd.After(p.GetScheduleDatetime()) {
			return overlapViolation(employee, p.GetScheduleDatetime()), nil
		}
	}

	return nil, nil
}

// estimatedOverlapWindow is a conservative stand-in duration for
// existing assignments whose own duration is not carried on
// ScheduledLike; Core and JuicerProduction blocks are short (well under
// an hour) so 60 minutes is a safe upper bound that never under-flags a
// real conflict.
func estimatedOverlapWindow(domain.EventType) time.Duration {
	return 60 * time.Minute
}

func overlapViolation(employee domain.Employee, existingAt time.Time) *validation.Violation {
	return &validation.Violation{
		Type:     validation.ConstraintAlreadyScheduled,
		Message:  fmt.Sprintf("%s already has an overlapping assignment at %s", employee.Name, existingAt.Format("2006-01-02 15:04")),
		Severity: validation.SeverityHard,
	}
}

func (v *Validator) checkDueDate(event domain.Event, scheduleDatetime time.Time) (validation.Violation, bool) {
	if !civilDate(scheduleDatetime).Before(civilDate(event.DueDatetime)) {
		return validation.Violation{
			Type:     validation.ConstraintDueDate,
			Message:  fmt.Sprintf("%s is on or after the due date %s", scheduleDatetime.Format("2006-01-02"), event.DueDatetime.Format("2006-01-02")),
			Severity: validation.SeverityHard,
		}, true
	}
	return validation.Violation{}, false
}

// GetAvailableEmployees filters the full roster down to those who
// validate cleanly for (event, datetime).
func (v *Validator) GetAvailableEmployees(ctx context.Context, event domain.Event, scheduleDatetime time.Time) ([]*domain.Employee, error) {
	roster, err := v.employees.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.Employee
	for _, e := range roster {
		result, err := v.ValidateAssignment(ctx, event, *e, scheduleDatetime, nil, nil)
		if err != nil {
			return nil, err
		}
		if result.IsValid {
			out = append(out, e)
		}
	}
	return out, nil
}
