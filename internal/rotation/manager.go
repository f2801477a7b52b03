// Package rotation resolves "who is on rotation" for a given day and
// rotation type, honoring one-time exceptions and backup assignments.
// Grounded on app/services/rotation_manager.py and
// tests/test_rotation_manager_backup.py in the retained reference
// material, restructured around the teacher repo's repository-interface
// style (internal/repository/job.go's "usecase depends on interface, not
// concrete implementation" pattern).
package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
)

// Manager resolves rotation lookups and owns the rotation/exception
// tables' write operations.
type Manager struct {
	rotations repository.RotationRepository
	employees repository.EmployeeRepository
}

func NewManager(rotations repository.RotationRepository, employees repository.EmployeeRepository) *Manager {
	return &Manager{rotations: rotations, employees: employees}
}

// GetRotationEmployee resolves the employee on rotation for date and
// rotationType. Resolution order: (a) a RotationException for that exact
// date; (b) the weekly RotationAssignment for that weekday, returning the
// backup if tryBackup is true and a backup is configured, else the
// primary. Returns nil, nil if nothing is configured.
func (m *Manager) GetRotationEmployee(ctx context.Context, date time.Time, rotationType domain.RotationType, tryBackup bool) (*domain.Employee, error) {
	dateKey := date.Format("2006-01-02")

	exc, err := m.rotations.GetException(ctx, dateKey, rotationType)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return m.employees.GetByID(ctx, exc.EmployeeID)
	}

	assignment, err := m.rotations.Get(ctx, domain.WeekdayIndex(date), rotationType)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}

	if tryBackup && assignment.BackupEmployeeID != nil {
		return m.employees.GetByID(ctx, *assignment.BackupEmployeeID)
	}
	return m.employees.GetByID(ctx, assignment.EmployeeID)
}

// GetRotationWithBackup returns both the primary and backup employee for
// one lookup, so a caller needing to try both does not issue the query
// twice.
func (m *Manager) GetRotationWithBackup(ctx context.Context, date time.Time, rotationType domain.RotationType) (primary, backup *domain.Employee, err error) {
	primary, err = m.GetRotationEmployee(ctx, date, rotationType, false)
	if err != nil {
		return nil, nil, err
	}
	backup, err = m.GetRotationEmployee(ctx, date, rotationType, true)
	if err != nil {
		return nil, nil, err
	}
	if backup != nil && primary != nil && backup.ID == primary.ID {
		// No distinct backup configured — GetRotationEmployee fell back to primary.
		backup = nil
	}
	return primary, backup, nil
}

// SetRotation upserts the (dayOfWeek, rotationType) -> employeeID mapping.
// Validates dayOfWeek and employee existence before writing; any failure
// rolls back (no partial state, since nothing has been written yet).
func (m *Manager) SetRotation(ctx context.Context, dayOfWeek int, rotationType domain.RotationType, employeeID string) (bool, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return false, domain.ErrInvalidDayOfWeek
	}
	if _, err := m.employees.GetByID(ctx, employeeID); err != nil {
		return false, fmt.Errorf("%w: %s", domain.ErrRotationNoEmployee, employeeID)
	}
	if err := m.rotations.Upsert(ctx, domain.RotationAssignment{
		DayOfWeek:    dayOfWeek,
		RotationType: rotationType,
		EmployeeID:   employeeID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// SetAllRotations atomically replaces every rotation assignment. Every
// entry is validated before anything is written; if any entry is invalid,
// nothing is written and the errors of every invalid entry are returned,
// matching the source's delete-then-reinsert-or-rollback shape.
func (m *Manager) SetAllRotations(ctx context.Context, assignments []domain.RotationAssignment) []error {
	var errs []error
	for _, a := range assignments {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			errs = append(errs, fmt.Errorf("%w: got %d", domain.ErrInvalidDayOfWeek, a.DayOfWeek))
			continue
		}
		if _, err := m.employees.GetByID(ctx, a.EmployeeID); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", domain.ErrRotationNoEmployee, a.EmployeeID))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	if err := m.rotations.ReplaceAll(ctx, assignments); err != nil {
		return []error{err}
	}
	return nil
}

// GetAllRotations returns every configured rotation assignment.
func (m *Manager) GetAllRotations(ctx context.Context) ([]domain.RotationAssignment, error) {
	return m.rotations.ListAll(ctx)
}

// AddException upserts a one-time override keyed on (date, rotationType).
func (m *Manager) AddException(ctx context.Context, date string, rotationType domain.RotationType, employeeID string, reason *string) error {
	if _, err := m.employees.GetByID(ctx, employeeID); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrRotationNoEmployee, employeeID)
	}
	return m.rotations.AddException(ctx, domain.RotationException{
		Date:         date,
		RotationType: rotationType,
		EmployeeID:   employeeID,
		Reason:       reason,
	})
}

// GetExceptions lists exceptions whose date falls in [start, end].
func (m *Manager) GetExceptions(ctx context.Context, start, end string) ([]domain.RotationException, error) {
	return m.rotations.ListExceptions(ctx, start, end)
}

// DeleteException removes a previously added exception by ID.
func (m *Manager) DeleteException(ctx context.Context, id string) error {
	return m.rotations.DeleteException(ctx, id)
}

// GetSecondaryLead returns any active LeadEventSpecialist or
// ClubSupervisor who is not the primary lead for date. "First available"
// by stable roster ordering.
func (m *Manager) GetSecondaryLead(ctx context.Context, date time.Time) (*domain.Employee, error) {
	primary, err := m.GetRotationEmployee(ctx, date, domain.RotationPrimaryLead, false)
	if err != nil {
		return nil, err
	}

	leads, err := m.employees.ListActiveByJobTitle(ctx, domain.JobTitleLeadEventSpecialist)
	if err != nil {
		return nil, err
	}
	supervisors, err := m.employees.ListActiveByJobTitle(ctx, domain.JobTitleClubSupervisor)
	if err != nil {
		return nil, err
	}

	for _, candidate := range append(leads, supervisors...) {
		if primary == nil || candidate.ID != primary.ID {
			return candidate, nil
		}
	}
	return nil, nil
}
