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

// EventRepository is the postgres-backed realization of
// repository.EventRepository.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `project_ref_num, project_name, event_type, start_datetime,
	due_datetime, estimated_duration_minutes, condition, is_scheduled`

func (r *EventRepository) GetByRefNum(ctx context.Context, refNum int) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE project_ref_num = $1`, refNum)
	return scanEvent(row)
}

func (r *EventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY project_ref_num`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListUnscheduled returns events with IsScheduled == false,
// Condition == Unstaffed, DueDatetime >= asOf — spec.md §4.4.1's event
// selection query.
func (r *EventRepository) ListUnscheduled(ctx context.Context, asOf time.Time) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE NOT is_scheduled AND condition = $1 AND due_datetime >= $2
		ORDER BY due_datetime`, domain.ConditionUnstaffed, asOf)
	if err != nil {
		return nil, fmt.Errorf("list unscheduled events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *EventRepository) MarkScheduled(ctx context.Context, refNum int, scheduled bool) error {
	condition := domain.ConditionUnstaffed
	if scheduled {
		condition = domain.ConditionStaffed
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE events SET is_scheduled = $2, condition = $3 WHERE project_ref_num = $1`,
		refNum, scheduled, condition)
	if err != nil {
		return fmt.Errorf("mark event scheduled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(
		&e.ProjectRefNum, &e.ProjectName, &e.EventType, &e.StartDatetime,
		&e.DueDatetime, &e.EstimatedDurationMinutes, &e.Condition, &e.IsScheduled,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
