package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// RotationRepository is the postgres-backed realization of
// repository.RotationRepository — the weekly rotation table and its
// one-time exceptions.
type RotationRepository struct {
	pool *pgxpool.Pool
}

func NewRotationRepository(pool *pgxpool.Pool) *RotationRepository {
	return &RotationRepository{pool: pool}
}

func (r *RotationRepository) Get(ctx context.Context, dayOfWeek int, rotationType domain.RotationType) (*domain.RotationAssignment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT day_of_week, rotation_type, employee_id, backup_employee_id
		FROM rotation_assignments WHERE day_of_week = $1 AND rotation_type = $2`,
		dayOfWeek, rotationType)

	var a domain.RotationAssignment
	if err := row.Scan(&a.DayOfWeek, &a.RotationType, &a.EmployeeID, &a.BackupEmployeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan rotation assignment: %w", err)
	}
	return &a, nil
}

// Upsert writes the (day_of_week, rotation_type) -> employee_id mapping,
// keeping any existing backup untouched (spec.md §4.1's SetRotation only
// touches the primary slot).
func (r *RotationRepository) Upsert(ctx context.Context, a domain.RotationAssignment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rotation_assignments (day_of_week, rotation_type, employee_id, backup_employee_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week, rotation_type)
		DO UPDATE SET employee_id = EXCLUDED.employee_id`,
		a.DayOfWeek, a.RotationType, a.EmployeeID, a.BackupEmployeeID)
	if err != nil {
		return fmt.Errorf("upsert rotation assignment: %w", err)
	}
	return nil
}

// ReplaceAll atomically deletes and reinserts every rotation assignment
// inside one transaction, per spec.md §4.1's SetAllRotations.
func (r *RotationRepository) ReplaceAll(ctx context.Context, assignments []domain.RotationAssignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace-all tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	if _, err := tx.Exec(ctx, `DELETE FROM rotation_assignments`); err != nil {
		return fmt.Errorf("clear rotation assignments: %w", err)
	}
	for _, a := range assignments {
		if _, err := tx.Exec(ctx, `
			INSERT INTO rotation_assignments (day_of_week, rotation_type, employee_id, backup_employee_id)
			VALUES ($1, $2, $3, $4)`,
			a.DayOfWeek, a.RotationType, a.EmployeeID, a.BackupEmployeeID); err != nil {
			return fmt.Errorf("insert rotation assignment: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace-all tx: %w", err)
	}
	return nil
}

func (r *RotationRepository) ListAll(ctx context.Context) ([]domain.RotationAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT day_of_week, rotation_type, employee_id, backup_employee_id
		FROM rotation_assignments ORDER BY day_of_week, rotation_type`)
	if err != nil {
		return nil, fmt.Errorf("list rotation assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.RotationAssignment
	for rows.Next() {
		var a domain.RotationAssignment
		if err := rows.Scan(&a.DayOfWeek, &a.RotationType, &a.EmployeeID, &a.BackupEmployeeID); err != nil {
			return nil, fmt.Errorf("scan rotation assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *RotationRepository) GetException(ctx context.Context, date string, rotationType domain.RotationType) (*domain.RotationException, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, date, rotation_type, employee_id, reason
		FROM rotation_exceptions WHERE date = $1 AND rotation_type = $2`, date, rotationType)

	var e domain.RotationException
	if err := row.Scan(&e.ID, &e.Date, &e.RotationType, &e.EmployeeID, &e.Reason); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan rotation exception: %w", err)
	}
	return &e, nil
}

func (r *RotationRepository) AddException(ctx context.Context, e domain.RotationException) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rotation_exceptions (date, rotation_type, employee_id, reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date, rotation_type)
		DO UPDATE SET employee_id = EXCLUDED.employee_id, reason = EXCLUDED.reason`,
		e.Date, e.RotationType, e.EmployeeID, e.Reason)
	if err != nil {
		return fmt.Errorf("upsert rotation exception: %w", err)
	}
	return nil
}

func (r *RotationRepository) ListExceptions(ctx context.Context, start, end string) ([]domain.RotationException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, rotation_type, employee_id, reason
		FROM rotation_exceptions WHERE date BETWEEN $1 AND $2 ORDER BY date`, start, end)
	if err != nil {
		return nil, fmt.Errorf("list rotation exceptions: %w", err)
	}
	defer rows.Close()

	var out []domain.RotationException
	for rows.Next() {
		var e domain.RotationException
		if err := rows.Scan(&e.ID, &e.Date, &e.RotationType, &e.EmployeeID, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan rotation exception: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RotationRepository) DeleteException(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rotation_exceptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rotation exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExceptionNotFound
	}
	return nil
}
