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

// RunRepository is the postgres-backed realization of
// repository.RunRepository — SchedulerRun lifecycle tracking.
type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

const runColumns = `id, run_type, started_at, completed_at, status, approved_at,
	total_processed, events_scheduled, events_failed, requiring_swaps, error_message`

func (r *RunRepository) Create(ctx context.Context, run *domain.SchedulerRun) (*domain.SchedulerRun, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO scheduler_runs (run_type, started_at, status, total_processed)
		VALUES ($1, $2, $3, $4)
		RETURNING `+runColumns,
		run.RunType, run.StartedAt, run.Status, run.TotalProcessed)
	return scanRun(row)
}

func (r *RunRepository) Update(ctx context.Context, run *domain.SchedulerRun) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE scheduler_runs SET
			status = $2, completed_at = $3, approved_at = $4,
			total_processed = $5, events_scheduled = $6, events_failed = $7,
			requiring_swaps = $8, error_message = $9
		WHERE id = $1`,
		run.ID, run.Status, run.CompletedAt, run.ApprovedAt,
		run.TotalProcessed, run.EventsScheduled, run.EventsFailed,
		run.RequiringSwaps, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("update scheduler run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.SchedulerRun, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM scheduler_runs WHERE id = $1`, id)
	return scanRun(row)
}

// ListActiveIDs returns the IDs of runs with ApprovedAt == nil and
// Status in {running, completed} — the cross-run visibility set spec.md
// §3 defines.
func (r *RunRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM scheduler_runs
		WHERE approved_at IS NULL AND status IN ($1, $2)`,
		domain.RunStatusRunning, domain.RunStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("list active run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan active run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListStaleRunning returns runs still in "running" that started before
// cutoff — consumed by internal/scheduler.Reaper.
func (r *RunRepository) ListStaleRunning(ctx context.Context, cutoff time.Time) ([]*domain.SchedulerRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+runColumns+` FROM scheduler_runs
		WHERE status = $1 AND started_at < $2`,
		domain.RunStatusRunning, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale running runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.SchedulerRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row rowScanner) (*domain.SchedulerRun, error) {
	var run domain.SchedulerRun
	if err := row.Scan(
		&run.ID, &run.RunType, &run.StartedAt, &run.CompletedAt, &run.Status, &run.ApprovedAt,
		&run.TotalProcessed, &run.EventsScheduled, &run.EventsFailed, &run.RequiringSwaps, &run.ErrorMessage,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("scan scheduler run: %w", err)
	}
	return &run, nil
}
