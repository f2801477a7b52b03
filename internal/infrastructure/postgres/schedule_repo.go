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

// ScheduleRepository is the postgres-backed realization of
// repository.ScheduleRepository — the committed, already-published
// schedule table.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `id, event_ref_num, event_type, employee_id, schedule_datetime, bump_count`

func (r *ScheduleRepository) Create(ctx context.Context, s *domain.ExistingSchedule) (*domain.ExistingSchedule, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO existing_schedules (event_ref_num, event_type, employee_id, schedule_datetime, bump_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+scheduleColumns,
		s.EventRefNum, s.EventType, s.EmployeeID, s.ScheduleDatetime, s.BumpCount)
	return scanSchedule(row)
}

func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM existing_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleRepository) GetByEventRefNum(ctx context.Context, eventRefNum int) (*domain.ExistingSchedule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM existing_schedules WHERE event_ref_num = $1`, eventRefNum)
	return scanSchedule(row)
}

// ListOnDate returns committed schedules whose ScheduleDatetime falls on
// date's civil date, optionally scoped to one employee.
func (r *ScheduleRepository) ListOnDate(ctx context.Context, date time.Time, employeeID *string) ([]*domain.ExistingSchedule, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `SELECT ` + scheduleColumns + ` FROM existing_schedules
		WHERE schedule_datetime >= $1 AND schedule_datetime < $2`
	args := []any{dayStart, dayEnd}
	if employeeID != nil {
		query += ` AND employee_id = $3`
		args = append(args, *employeeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules on date: %w", err)
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// ListForEmployeeBetween returns committed schedules for an employee
// with ScheduleDatetime in [start, end).
func (r *ScheduleRepository) ListForEmployeeBetween(ctx context.Context, employeeID string, start, end time.Time) ([]*domain.ExistingSchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleColumns+` FROM existing_schedules
		WHERE employee_id = $1 AND schedule_datetime >= $2 AND schedule_datetime < $3`,
		employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list schedules for employee: %w", err)
	}
	defer rows.Close()
	return scanSchedules(rows)
}

func (r *ScheduleRepository) UpdateDatetime(ctx context.Context, id string, newDatetime time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE existing_schedules SET schedule_datetime = $2 WHERE id = $1`, id, newDatetime)
	if err != nil {
		return fmt.Errorf("update schedule datetime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleRepository) IncrementBumpCount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE existing_schedules SET bump_count = bump_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment bump count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func scanSchedule(row rowScanner) (*domain.ExistingSchedule, error) {
	var s domain.ExistingSchedule
	if err := row.Scan(&s.ID, &s.EventRefNum, &s.EventType, &s.EmployeeID, &s.ScheduleDatetime, &s.BumpCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	return &s, nil
}

func scanSchedules(rows pgx.Rows) ([]*domain.ExistingSchedule, error) {
	var out []*domain.ExistingSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
