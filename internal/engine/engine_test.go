package engine_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/constraint"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/engine"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/memory"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/ranker"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/rotation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(store *memory.Store) *engine.Engine {
	rotationMgr := rotation.NewManager(store.Rotations(), store.Employees())
	validator := constraint.NewValidator(
		store.Events(), store.Schedules(), store.Pending(), store.Runs(), store.Availability(), store.Employees(),
		constraint.Config{MaxCorePerDay: 1, MaxCorePerWeek: 6, Timezone: time.UTC},
	)
	resolver := conflict.NewResolver(store.Schedules(), store.Events(), store.Employees())
	cfg := engine.DefaultConfig(time.UTC)
	return engine.NewEngine(
		store.Employees(), store.Events(), store.Schedules(), store.Pending(), store.Runs(),
		rotationMgr, validator, resolver, ranker.NewRuleBased(), cfg, discardLogger(),
	)
}

func seedAllAvailable(store *memory.Store, empID string) {
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{
		EmployeeID: empID,
		Monday:     true, Tuesday: true, Wednesday: true, Thursday: true,
		Friday: true, Saturday: true, Sunday: true,
	})
}

// nextMonday returns the next Monday strictly after from, at civil midnight.
func nextMonday(from time.Time) time.Time {
	d := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == time.Monday {
			return d
		}
	}
}

func TestScheduleSingleEvent_CoreEventPlacedWithAvailableSpecialist(t *testing.T) {
	store := memory.NewStore()
	priya := domain.Employee{ID: "priya", Name: "Priya", JobTitle: domain.JobTitleEventSpecialist, Active: true}
	store.SeedEmployee(priya)
	seedAllAvailable(store, priya.ID)

	monday := nextMonday(time.Now())
	event := domain.Event{
		ProjectRefNum: 1001, ProjectName: "Demo 1001 Core Sample", EventType: domain.EventTypeCore,
		StartDatetime: monday, DueDatetime: monday.AddDate(0, 0, 5),
	}
	store.SeedEvent(event)

	eng := newTestEngine(store)
	placed, err := eng.ScheduleSingleEvent(context.Background(), event.ProjectRefNum)
	if err != nil {
		t.Fatalf("ScheduleSingleEvent: %v", err)
	}
	if placed == nil || placed.FailureReason != nil {
		t.Fatalf("expected the Core event to place successfully, got %+v", placed)
	}
	if placed.EmployeeID == nil || *placed.EmployeeID != priya.ID {
		t.Fatalf("expected priya to be assigned, got %+v", placed.EmployeeID)
	}
}

func TestScheduleSingleEvent_HolidayBlocksJuicerWithExplicitReason(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	seedAllAvailable(store, alice.ID)
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationJuicer, EmployeeID: alice.ID})

	monday := nextMonday(time.Now())
	for d := 0; d < 4; d++ {
		store.SeedHoliday(monday.AddDate(0, 0, d))
	}

	event := domain.Event{
		ProjectRefNum: 2001, ProjectName: "Juicer Production 2001", EventType: domain.EventTypeJuicerProduction,
		StartDatetime: monday, DueDatetime: monday.AddDate(0, 0, 4),
	}
	store.SeedEvent(event)

	eng := newTestEngine(store)
	placed, err := eng.ScheduleSingleEvent(context.Background(), event.ProjectRefNum)
	if err != nil {
		t.Fatalf("ScheduleSingleEvent: %v", err)
	}
	if placed == nil || placed.FailureReason == nil {
		t.Fatalf("expected the event to fail against a fully-holiday window, got %+v", placed)
	}
	if !strings.Contains(*placed.FailureReason, "Company Holiday") {
		t.Fatalf("expected failure reason to mention the holiday, got %q", *placed.FailureReason)
	}
}

// TestScheduleSingleEvent_BumpRespectsMaxBumpCap asserts that an event
// already bumped MaxBumpsPerEvent times is excluded from further cascading
// bumps (spec.md §8's max-bump-cap scenario).
func TestScheduleSingleEvent_BumpRespectsMaxBumpCap(t *testing.T) {
	store := memory.NewStore()
	dana := domain.Employee{ID: "dana", Name: "Dana", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true}
	store.SeedEmployee(dana)
	seedAllAvailable(store, dana.ID)

	monday := nextMonday(time.Now())
	occupantEvent := domain.Event{
		ProjectRefNum: 3001, EventType: domain.EventTypeCore, IsScheduled: true, Condition: domain.ConditionStaffed,
		StartDatetime: monday, DueDatetime: monday.AddDate(0, 0, 20),
	}
	store.SeedEvent(occupantEvent)
	occupantSlot := monday.Add(10*time.Hour + 15*time.Minute)
	occupant, err := store.Schedules().Create(context.Background(), &domain.ExistingSchedule{
		EventRefNum: occupantEvent.ProjectRefNum, EventType: domain.EventTypeCore, EmployeeID: dana.ID,
		ScheduleDatetime: occupantSlot, BumpCount: 3,
	})
	if err != nil {
		t.Fatalf("seed occupant schedule: %v", err)
	}
	_ = occupant

	urgentEvent := domain.Event{
		ProjectRefNum: 3002, EventType: domain.EventTypeCore,
		StartDatetime: monday, DueDatetime: monday.AddDate(0, 0, 1),
	}
	store.SeedEvent(urgentEvent)

	eng := newTestEngine(store)

	placed, err := eng.ScheduleSingleEvent(context.Background(), urgentEvent.ProjectRefNum)
	if err != nil {
		t.Fatalf("ScheduleSingleEvent: %v", err)
	}
	if placed == nil || placed.FailureReason == nil {
		t.Fatalf("expected the urgent event to fail: the only occupant is already at the bump cap, got %+v", placed)
	}

	stillThere, err := store.Schedules().GetByEventRefNum(context.Background(), occupantEvent.ProjectRefNum)
	if err != nil {
		t.Fatalf("GetByEventRefNum: %v", err)
	}
	if stillThere == nil {
		t.Fatal("expected the at-cap occupant's schedule to remain untouched")
	}
}
