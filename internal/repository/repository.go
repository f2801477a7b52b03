// Package repository defines the persistence contracts the engine and its
// collaborators depend on. Per spec.md §1 and §6, persistence itself is
// out of scope — only these access contracts are specified. Concrete
// adapters live under internal/infrastructure (memory for tests/runonce,
// postgres as an optional reference implementation).
package repository

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// EmployeeRepository is the read-only surface over the employee roster.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	ListActive(ctx context.Context) ([]*domain.Employee, error)
	ListActiveByJobTitle(ctx context.Context, title domain.JobTitle) ([]*domain.Employee, error)
}

// EventRepository provides the unscheduled backlog and lookups by ref num.
type EventRepository interface {
	GetByRefNum(ctx context.Context, refNum int) (*domain.Event, error)
	ListAll(ctx context.Context) ([]*domain.Event, error)
	// ListUnscheduled returns events with IsScheduled == false,
	// Condition == Unstaffed, DueDatetime >= asOf.
	ListUnscheduled(ctx context.Context, asOf time.Time) ([]*domain.Event, error)
	MarkScheduled(ctx context.Context, refNum int, scheduled bool) error
}

// ScheduleRepository is the committed, already-published schedule table.
type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.ExistingSchedule) (*domain.ExistingSchedule, error)
	Delete(ctx context.Context, id string) error
	GetByEventRefNum(ctx context.Context, eventRefNum int) (*domain.ExistingSchedule, error)
	// ListOnDate returns committed schedules whose ScheduleDatetime falls on
	// the given civil date, optionally scoped to one employee.
	ListOnDate(ctx context.Context, date time.Time, employeeID *string) ([]*domain.ExistingSchedule, error)
	// ListForEmployeeBetween returns committed schedules for an employee
	// with ScheduleDatetime in [start, end).
	ListForEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]*domain.ExistingSchedule, error)
	UpdateDatetime(ctx context.Context, id string, newDatetime time.Time) error
	IncrementBumpCount(ctx context.Context, id string) error
}

// PendingAssignmentRepository is the per-run proposal table.
type PendingAssignmentRepository interface {
	Create(ctx context.Context, p *domain.PendingAssignment) (*domain.PendingAssignment, error)
	Delete(ctx context.Context, id string) error
	UpdateDatetime(ctx context.Context, id string, newDatetime time.Time) error
	IncrementBumpCount(ctx context.Context, id string) error
	// ListActiveByRun returns non-superseded, non-failed rows for one run.
	ListActiveByRun(ctx context.Context, runID string) ([]*domain.PendingAssignment, error)
	ListFailedByRun(ctx context.Context, runID string) ([]*domain.PendingAssignment, error)
	ListOnDateForRuns(ctx context.Context, runIDs []string, date time.Time, employeeID *string) ([]*domain.PendingAssignment, error)
	GetByEventRefNumForRuns(ctx context.Context, runIDs []string, eventRefNum int) (*domain.PendingAssignment, error)
}

// RunRepository tracks SchedulerRun lifecycle.
type RunRepository interface {
	Create(ctx context.Context, r *domain.SchedulerRun) (*domain.SchedulerRun, error)
	Update(ctx context.Context, r *domain.SchedulerRun) error
	GetByID(ctx context.Context, id string) (*domain.SchedulerRun, error)
	// ListActiveIDs returns the IDs of runs with ApprovedAt == nil and
	// Status in {running, completed} — the cross-run visibility set.
	ListActiveIDs(ctx context.Context) ([]string, error)
	// ListStaleRunning returns runs still in "running" whose StartedAt is
	// before cutoff — used by the stale-run reaper.
	ListStaleRunning(ctx context.Context, cutoff time.Time) ([]*domain.SchedulerRun, error)
}

// RotationRepository is the weekly rotation table and its exceptions.
type RotationRepository interface {
	Get(ctx context.Context, dayOfWeek int, rotationType domain.RotationType) (*domain.RotationAssignment, error)
	Upsert(ctx context.Context, a domain.RotationAssignment) error
	ReplaceAll(ctx context.Context, assignments []domain.RotationAssignment) error
	ListAll(ctx context.Context) ([]domain.RotationAssignment, error)

	GetException(ctx context.Context, date string, rotationType domain.RotationType) (*domain.RotationException, error)
	AddException(ctx context.Context, e domain.RotationException) error
	ListExceptions(ctx context.Context, start, end string) ([]domain.RotationException, error)
	DeleteException(ctx context.Context, id string) error
}

// AvailabilityRepository serves TimeOff, WeeklyAvailability, and
// CompanyHoliday lookups.
type AvailabilityRepository interface {
	GetTimeOff(ctx context.Context, employeeID string, date time.Time) (*domain.TimeOff, error)
	GetWeeklyAvailability(ctx context.Context, employeeID string) (*domain.WeeklyAvailability, error)
	IsCompanyHoliday(ctx context.Context, date time.Time) (bool, error)
}
