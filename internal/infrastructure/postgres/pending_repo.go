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

// PendingRepository is the postgres-backed realization of
// repository.PendingAssignmentRepository — the per-run proposal table.
type PendingRepository struct {
	pool *pgxpool.Pool
}

func NewPendingRepository(pool *pgxpool.Pool) *PendingRepository {
	return &PendingRepository{pool: pool}
}

const pendingColumns = `id, scheduler_run_id, event_ref_num, event_type, employee_id,
	schedule_datetime, status, failure_reason, is_swap, bumped_event_ref,
	swap_reason, bump_count`

func (r *PendingRepository) Create(ctx context.Context, p *domain.PendingAssignment) (*domain.PendingAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pending_assignments (
			scheduler_run_id, event_ref_num, event_type, employee_id,
			schedule_datetime, status, failure_reason, is_swap, bumped_event_ref,
			swap_reason, bump_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+pendingColumns,
		p.SchedulerRunID, p.EventRefNum, p.EventType, p.EmployeeID,
		p.ScheduleDatetime, p.Status, p.FailureReason, p.IsSwap, p.BumpedEventRef,
		p.SwapReason, p.BumpCount)
	return scanPending(row)
}

func (r *PendingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pending_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pending assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPendingNotFound
	}
	return nil
}

func (r *PendingRepository) UpdateDatetime(ctx context.Context, id string, newDatetime time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pending_assignments SET schedule_datetime = $2 WHERE id = $1`, id, newDatetime)
	if err != nil {
		return fmt.Errorf("update pending datetime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPendingNotFound
	}
	return nil
}

func (r *PendingRepository) IncrementBumpCount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pending_assignments SET bump_count = bump_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment pending bump count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPendingNotFound
	}
	return nil
}

// ListActiveByRun returns non-superseded, non-failed rows for one run.
func (r *PendingRepository) ListActiveByRun(ctx context.Context, runID string) ([]*domain.PendingAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+pendingColumns+` FROM pending_assignments
		WHERE scheduler_run_id = $1 AND failure_reason IS NULL AND status != $2`,
		runID, domain.PendingStatusSuperseded)
	if err != nil {
		return nil, fmt.Errorf("list active pending by run: %w", err)
	}
	defer rows.Close()
	return scanPendingRows(rows)
}

func (r *PendingRepository) ListFailedByRun(ctx context.Context, runID string) ([]*domain.PendingAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+pendingColumns+` FROM pending_assignments
		WHERE scheduler_run_id = $1 AND failure_reason IS NOT NULL`, runID)
	if err != nil {
		return nil, fmt.Errorf("list failed pending by run: %w", err)
	}
	defer rows.Close()
	return scanPendingRows(rows)
}

func (r *PendingRepository) ListOnDateForRuns(ctx context.Context, runIDs []string, date time.Time, employeeID *string) ([]*domain.PendingAssignment, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `SELECT ` + pendingColumns + ` FROM pending_assignments
		WHERE scheduler_run_id = ANY($1) AND failure_reason IS NULL
		  AND schedule_datetime >= $2 AND schedule_datetime < $3`
	args := []any{runIDs, dayStart, dayEnd}
	if employeeID != nil {
		query += ` AND employee_id = $4`
		args = append(args, *employeeID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending on date for runs: %w", err)
	}
	defer rows.Close()
	return scanPendingRows(rows)
}

func (r *PendingRepository) GetByEventRefNumForRuns(ctx context.Context, runIDs []string, eventRefNum int) (*domain.PendingAssignment, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+pendingColumns+` FROM pending_assignments
		WHERE scheduler_run_id = ANY($1) AND event_ref_num = $2 AND failure_reason IS NULL
		LIMIT 1`, runIDs, eventRefNum)
	p, err := scanPending(row)
	if errors.Is(err, domain.ErrPendingNotFound) {
		return nil, nil
	}
	return p, err
}

func scanPending(row rowScanner) (*domain.PendingAssignment, error) {
	var p domain.PendingAssignment
	if err := row.Scan(
		&p.ID, &p.SchedulerRunID, &p.EventRefNum, &p.EventType, &p.EmployeeID,
		&p.ScheduleDatetime, &p.Status, &p.FailureReason, &p.IsSwap, &p.BumpedEventRef,
		&p.SwapReason, &p.BumpCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPendingNotFound
		}
		return nil, fmt.Errorf("scan pending assignment: %w", err)
	}
	return &p, nil
}

func scanPendingRows(rows pgx.Rows) ([]*domain.PendingAssignment, error) {
	var out []*domain.PendingAssignment
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
