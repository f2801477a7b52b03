package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/constraint"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/ranker"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/repository"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/rotation"
)

// Engine is the Scheduling Engine: it owns one SchedulerRun end to end,
// coordinating the Rotation Manager, Constraint Validator, and Conflict
// Resolver across the five waves in spec.md §4.4.
type Engine struct {
	employees repository.EmployeeRepository
	events    repository.EventRepository
	schedules repository.ScheduleRepository
	pending   repository.PendingAssignmentRepository
	runs      repository.RunRepository

	rotations  *rotation.Manager
	validator  *constraint.Validator
	resolver   *conflict.Resolver
	rankerImpl ranker.Ranker

	cfg    Config
	logger *slog.Logger

	run              *domain.SchedulerRun
	st               *runState
	supervisorIndex  map[string]*domain.Event
}

func NewEngine(
	employees repository.EmployeeRepository,
	events repository.EventRepository,
	schedules repository.ScheduleRepository,
	pending repository.PendingAssignmentRepository,
	runs repository.RunRepository,
	rotations *rotation.Manager,
	validator *constraint.Validator,
	resolver *conflict.Resolver,
	rank ranker.Ranker,
	cfg Config,
	logger *slog.Logger,
) *Engine {
	if rank == nil {
		rank = ranker.NewRuleBased()
	}
	return &Engine{
		employees:  employees,
		events:     events,
		schedules:  schedules,
		pending:    pending,
		runs:       runs,
		rotations:  rotations,
		validator:  validator,
		resolver:   resolver,
		rankerImpl: rank,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunAutoScheduler executes one full batch scheduling pass: it loads the
// unscheduled backlog, orders it by priority, and runs every wave in
// sequence, recording every placement (or failure) as a PendingAssignment
// awaiting human approval. It never commits to the published schedule
// itself (spec.md §1: humans approve before anything goes external).
func (e *Engine) RunAutoScheduler(ctx context.Context, runType domain.RunType) (*domain.SchedulerRun, error) {
	now := time.Now()
	if e.cfg.Timezone != nil {
		now = now.In(e.cfg.Timezone)
	}

	run := &domain.SchedulerRun{
		ID:        uuid.NewString(),
		RunType:   runType,
		StartedAt: now,
		Status:    domain.RunStatusRunning,
	}
	run, err := e.runs.Create(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("create scheduler run: %w", err)
	}

	e.run = run
	e.st = newRunState()
	e.validator.SetCurrentRun(run.ID)

	if err := e.execute(ctx, now); err != nil {
		msg := err.Error()
		run.ErrorMessage = &msg
		run.Status = domain.RunStatusFailed
		completedAt := time.Now()
		run.CompletedAt = &completedAt
		_ = e.runs.Update(ctx, run)
		return run, err
	}

	completedAt := time.Now()
	run.CompletedAt = &completedAt
	run.Status = domain.RunStatusCompleted
	if err := e.runs.Update(ctx, run); err != nil {
		return run, fmt.Errorf("finalize scheduler run: %w", err)
	}

	e.logger.Info("scheduler run completed",
		slog.String("run_id", run.ID),
		slog.Int("scheduled", run.EventsScheduled),
		slog.Int("failed", run.EventsFailed),
		slog.Int("requiring_swaps", run.RequiringSwaps),
	)
	return run, nil
}

func (e *Engine) execute(ctx context.Context, now time.Time) error {
	backlog, err := e.events.ListUnscheduled(ctx, now)
	if err != nil {
		return fmt.Errorf("list unscheduled events: %w", err)
	}
	e.run.TotalProcessed = len(backlog)
	sortByPriority(backlog, now)

	e.supervisorIndex = make(map[string]*domain.Event)

	var juicer, core, freeosk, digital, other []*domain.Event
	for _, ev := range backlog {
		switch {
		case ev.EventType.IsJuicer():
			juicer = append(juicer, ev)
		case ev.EventType == domain.EventTypeCore:
			core = append(core, ev)
		case ev.EventType == domain.EventTypeFreeosk:
			freeosk = append(freeosk, ev)
		case ev.EventType == domain.EventTypeDigitals:
			digital = append(digital, ev)
		case ev.EventType == domain.EventTypeSupervisor:
			if num, ok := domain.ExtractEventNumber(ev.ProjectName); ok {
				e.supervisorIndex[num] = ev
			}
		default:
			other = append(other, ev)
		}
	}

	if err := e.runWave1Juicer(ctx, juicer, now); err != nil {
		return fmt.Errorf("wave 1 (juicer): %w", err)
	}
	if err := e.runWave2Core(ctx, core, now); err != nil {
		return fmt.Errorf("wave 2 (core): %w", err)
	}
	if err := e.runOrphanedSupervisorPass(ctx, backlog, now); err != nil {
		return fmt.Errorf("orphaned supervisor pass: %w", err)
	}
	if err := e.runWave3Freeosk(ctx, freeosk, now); err != nil {
		return fmt.Errorf("wave 3 (freeosk): %w", err)
	}
	if err := e.runWave4Digital(ctx, digital, now); err != nil {
		return fmt.Errorf("wave 4 (digital): %w", err)
	}
	if err := e.runWave5Other(ctx, other, now); err != nil {
		return fmt.Errorf("wave 5 (other): %w", err)
	}
	if err := e.runRescuePass(ctx, now); err != nil {
		return fmt.Errorf("rescue pass: %w", err)
	}
	return nil
}

// createPendingAssignment re-asserts the scheduling-window safety check
// (start <= schedule_datetime < due) immediately before writing, mirroring
// the source's last-line-of-defense guard against a logic error upstream
// silently producing an out-of-window placement.
func (e *Engine) createPendingAssignment(ctx context.Context, event domain.Event, employeeID string, scheduleDatetime time.Time, isSwap bool, bumpedEventRef *int, swapReason *string) (*domain.PendingAssignment, error) {
	if !event.ValidForDatetime(scheduleDatetime) {
		return nil, fmt.Errorf("refusing to write out-of-window assignment for event %d at %s", event.ProjectRefNum, scheduleDatetime)
	}
	empID := employeeID
	dt := scheduleDatetime
	p := &domain.PendingAssignment{
		ID:               uuid.NewString(),
		SchedulerRunID:   e.run.ID,
		EventRefNum:      event.ProjectRefNum,
		EventType:        event.EventType,
		EmployeeID:       &empID,
		ScheduleDatetime: &dt,
		Status:           domain.PendingStatusProposed,
		IsSwap:           isSwap,
		BumpedEventRef:   bumpedEventRef,
		SwapReason:       swapReason,
	}
	created, err := e.pending.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	e.run.EventsScheduled++
	if isSwap {
		e.run.RequiringSwaps++
	}
	return created, nil
}

func (e *Engine) createFailedPendingAssignment(ctx context.Context, event domain.Event, reason string) (*domain.PendingAssignment, error) {
	p := &domain.PendingAssignment{
		ID:             uuid.NewString(),
		SchedulerRunID: e.run.ID,
		EventRefNum:    event.ProjectRefNum,
		EventType:      event.EventType,
		Status:         domain.PendingStatusProposed,
		FailureReason:  &reason,
	}
	created, err := e.pending.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	e.run.EventsFailed++
	e.logger.Warn("event could not be scheduled",
		slog.Int("event_ref_num", event.ProjectRefNum),
		slog.String("reason", reason),
	)
	return created, nil
}
