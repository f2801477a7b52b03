package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// EmployeeRepository is the postgres-backed realization of
// repository.EmployeeRepository.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, job_title, active, juicer_trained
		FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, job_title, active, juicer_trained
		FROM employees WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	defer rows.Close()
	return scanEmployees(rows)
}

func (r *EmployeeRepository) ListActiveByJobTitle(ctx context.Context, title domain.JobTitle) ([]*domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, job_title, active, juicer_trained
		FROM employees WHERE active AND job_title = $1 ORDER BY name`, title)
	if err != nil {
		return nil, fmt.Errorf("list employees by job title: %w", err)
	}
	defer rows.Close()
	return scanEmployees(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.JobTitle, &e.Active, &e.JuicerTrained); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &e, nil
}

func scanEmployees(rows pgx.Rows) ([]*domain.Employee, error) {
	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
