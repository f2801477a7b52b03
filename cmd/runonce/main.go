// runonce seeds a synthetic roster and backlog into an in-memory store,
// executes a single manual scheduling run, and prints a summary.
// Run: go run ./cmd/runonce
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/constraint"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/engine"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/memory"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/notify"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/ranker"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/rotation"
)

func main() {
	tz, err := time.LoadLocation("America/Indiana/Indianapolis")
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	store := memory.NewStore()
	seedRoster(store)
	seedBacklog(store, tz)

	rotationMgr := rotation.NewManager(store.Rotations(), store.Employees())
	validator := constraint.NewValidator(
		store.Events(), store.Schedules(), store.Pending(), store.Runs(), store.Availability(), store.Employees(),
		constraint.Config{MaxCorePerDay: 1, MaxCorePerWeek: 6, Timezone: tz},
	)
	resolver := conflict.NewResolver(store.Schedules(), store.Events(), store.Employees())
	rank := ranker.NewRuleBased()

	cfg := engine.DefaultConfig(tz)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	eng := engine.NewEngine(
		store.Employees(), store.Events(), store.Schedules(), store.Pending(), store.Runs(),
		rotationMgr, validator, resolver, rank, cfg, logger,
	)

	ctx := context.Background()
	run, err := eng.RunAutoScheduler(ctx, domain.RunTypeManual)
	if err != nil {
		log.Fatalf("scheduling run: %v", err)
	}

	notifier := notify.NewLogNotifier(logger)
	if err := notifier.NotifyRunCompleted(ctx, *run); err != nil {
		log.Printf("notify: %v", err)
	}

	fmt.Println(notify.Summary(*run))
	printPending(ctx, store, run.ID)
}

func printPending(ctx context.Context, store *memory.Store, runID string) {
	active, err := store.Pending().ListActiveByRun(ctx, runID)
	if err != nil {
		log.Fatalf("list active pending: %v", err)
	}
	failed, err := store.Pending().ListFailedByRun(ctx, runID)
	if err != nil {
		log.Fatalf("list failed pending: %v", err)
	}

	fmt.Println()
	fmt.Println("Proposed assignments:")
	for _, p := range active {
		fmt.Printf("  #%d (%s) -> %s at %s\n", p.EventRefNum, p.EventType, p.GetEmployeeID(), p.GetScheduleDatetime().Format("Mon Jan 2 15:04"))
	}
	if len(failed) > 0 {
		fmt.Println("Failed to place:")
		for _, p := range failed {
			fmt.Printf("  #%d (%s): %s\n", p.EventRefNum, p.EventType, *p.FailureReason)
		}
	}
}

func seedRoster(store *memory.Store) {
	roster := []domain.Employee{
		{ID: uuid.NewString(), Name: "Dana Lead", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true},
		{ID: uuid.NewString(), Name: "Priya Specialist", JobTitle: domain.JobTitleEventSpecialist, Active: true},
		{ID: uuid.NewString(), Name: "Omar Specialist", JobTitle: domain.JobTitleEventSpecialist, Active: true},
		{ID: uuid.NewString(), Name: "Jade Juicer", JobTitle: domain.JobTitleJuicerBarista, Active: true, JuicerTrained: true},
		{ID: uuid.NewString(), Name: "Sam Supervisor", JobTitle: domain.JobTitleClubSupervisor, Active: true},
	}
	for _, e := range roster {
		store.SeedEmployee(e)
	}

	for _, e := range roster {
		store.SeedWeeklyAvailability(domain.WeeklyAvailability{
			EmployeeID: e.ID,
			Monday:     true, Tuesday: true, Wednesday: true, Thursday: true,
			Friday: true, Saturday: true, Sunday: true,
		})
	}

	monday := nextMonday(time.Now())
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationJuicer, EmployeeID: roster[3].ID})
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationPrimaryLead, EmployeeID: roster[0].ID})
	_ = monday
}

func seedBacklog(store *memory.Store, tz *time.Location) {
	now := time.Now().In(tz)
	events := []domain.Event{
		{ProjectRefNum: 100201, ProjectName: "Core Demo 100201", EventType: domain.EventTypeCore,
			StartDatetime: now, DueDatetime: now.AddDate(0, 0, 5), Condition: domain.ConditionUnstaffed},
		{ProjectRefNum: 100450, ProjectName: "Juicer Production 100450", EventType: domain.EventTypeJuicerProduction,
			StartDatetime: now, DueDatetime: now.AddDate(0, 0, 2), Condition: domain.ConditionUnstaffed},
		{ProjectRefNum: 100612, ProjectName: "Freeosk Kiosk 100612", EventType: domain.EventTypeFreeosk,
			StartDatetime: now, DueDatetime: now.AddDate(0, 0, 3), Condition: domain.ConditionUnstaffed},
		{ProjectRefNum: 100788, ProjectName: "Digitals Setup 100788", EventType: domain.EventTypeDigitals,
			StartDatetime: now, DueDatetime: now.AddDate(0, 0, 4), Condition: domain.ConditionUnstaffed},
	}
	for _, ev := range events {
		store.SeedEvent(ev)
	}
}

func nextMonday(from time.Time) time.Time {
	for from.Weekday() != time.Monday {
		from = from.AddDate(0, 0, 1)
	}
	return from
}
