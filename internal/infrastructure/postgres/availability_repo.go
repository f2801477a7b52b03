package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// AvailabilityRepository is the postgres-backed realization of
// repository.AvailabilityRepository — time off, weekly availability, and
// company holidays.
type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// GetTimeOff returns the TimeOff row covering date for the employee, if
// any — the range is inclusive on both ends per domain.TimeOff.Covers.
func (r *AvailabilityRepository) GetTimeOff(ctx context.Context, employeeID string, date time.Time) (*domain.TimeOff, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, start_date, end_date
		FROM time_off
		WHERE employee_id = $1 AND start_date <= $2 AND end_date >= $2
		LIMIT 1`,
		employeeID, date)

	var t domain.TimeOff
	if err := row.Scan(&t.ID, &t.EmployeeID, &t.StartDate, &t.EndDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan time off: %w", err)
	}
	return &t, nil
}

func (r *AvailabilityRepository) GetWeeklyAvailability(ctx context.Context, employeeID string) (*domain.WeeklyAvailability, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT employee_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday
		FROM weekly_availability WHERE employee_id = $1`, employeeID)

	var w domain.WeeklyAvailability
	if err := row.Scan(
		&w.EmployeeID, &w.Monday, &w.Tuesday, &w.Wednesday,
		&w.Thursday, &w.Friday, &w.Saturday, &w.Sunday,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan weekly availability: %w", err)
	}
	return &w, nil
}

func (r *AvailabilityRepository) IsCompanyHoliday(ctx context.Context, date time.Time) (bool, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM company_holidays WHERE date >= $1 AND date < $2)`,
		dayStart, dayEnd).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check company holiday: %w", err)
	}
	return exists, nil
}
