package constraint_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/constraint"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/memory"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/validation"
)

func newValidator(store *memory.Store) *constraint.Validator {
	return constraint.NewValidator(
		store.Events(), store.Schedules(), store.Pending(), store.Runs(), store.Availability(), store.Employees(),
		constraint.Config{MaxCorePerDay: 1, MaxCorePerWeek: 6, Timezone: time.UTC},
	)
}

func mustContain(t *testing.T, result *validation.Result, typ validation.ConstraintType, substr string) {
	t.Helper()
	for _, v := range result.HardViolations() {
		if v.Type == typ && strings.Contains(v.Message, substr) {
			return
		}
	}
	t.Fatalf("expected a hard %s violation containing %q, got %+v", typ, substr, result.Violations)
}

func TestValidateAssignment_CompanyHolidayBlocks(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: alice.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})

	tuesday := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	store.SeedHoliday(tuesday)

	event := domain.Event{
		ProjectRefNum: 1, EventType: domain.EventTypeJuicerProduction,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DueDatetime:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}

	v := newValidator(store)
	result, err := v.ValidateAssignment(context.Background(), event, alice, tuesday, nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected holiday to invalidate the assignment")
	}
	mustContain(t, result, validation.ConstraintCompanyHoliday, "Company Holiday")
}

func TestValidateAssignment_TimeOffBlocks(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: alice.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})
	store.SeedTimeOff(domain.TimeOff{
		ID: "t1", EmployeeID: alice.ID,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	})

	event := domain.Event{
		ProjectRefNum: 1, EventType: domain.EventTypeJuicerProduction,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DueDatetime:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}

	v := newValidator(store)
	at := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	result, err := v.ValidateAssignment(context.Background(), event, alice, at, nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	mustContain(t, result, validation.ConstraintTimeOff, "time off")
}

func TestValidateAssignment_RoleMismatchBlocks(t *testing.T) {
	store := memory.NewStore()
	priya := domain.Employee{ID: "priya", Name: "Priya", JobTitle: domain.JobTitleEventSpecialist, Active: true}
	store.SeedEmployee(priya)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: priya.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})

	event := domain.Event{
		ProjectRefNum: 1, EventType: domain.EventTypeJuicerProduction,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		DueDatetime:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}

	v := newValidator(store)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	result, err := v.ValidateAssignment(context.Background(), event, priya, at, nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	mustContain(t, result, validation.ConstraintRole, "Juicer Barista")
}

func TestValidateAssignment_DailyLimitBlocksSecondCore(t *testing.T) {
	store := memory.NewStore()
	dana := domain.Employee{ID: "dana", Name: "Dana", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true}
	store.SeedEmployee(dana)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: dana.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})

	existing := domain.ExistingSchedule{
		EventRefNum: 900001, EventType: domain.EventTypeCore, EmployeeID: dana.ID,
		ScheduleDatetime: time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
	}
	store.SeedEvent(domain.Event{
		ProjectRefNum: 900001, EventType: domain.EventTypeCore, IsScheduled: true, Condition: domain.ConditionStaffed,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), DueDatetime: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	})
	if _, err := store.Schedules().Create(context.Background(), &existing); err != nil {
		t.Fatalf("seed existing schedule: %v", err)
	}

	second := domain.Event{
		ProjectRefNum: 900002, EventType: domain.EventTypeCore,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), DueDatetime: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}

	v := newValidator(store)
	at := time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC)
	result, err := v.ValidateAssignment(context.Background(), second, dana, at, nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	mustContain(t, result, validation.ConstraintDailyLimit, "already has")
}

// TestValidateAssignment_CrossRunPendingVisibility checks spec.md §3's
// rule that a pending assignment from another still-open run blocks a
// slot exactly like a committed schedule.
func TestValidateAssignment_CrossRunPendingVisibility(t *testing.T) {
	store := memory.NewStore()
	dana := domain.Employee{ID: "dana", Name: "Dana", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true}
	store.SeedEmployee(dana)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: dana.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})
	store.SeedEvent(domain.Event{
		ProjectRefNum: 900003, EventType: domain.EventTypeCore,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), DueDatetime: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	})

	ctx := context.Background()
	otherRun, err := store.Runs().Create(ctx, &domain.SchedulerRun{ID: "other-run", Status: domain.RunStatusRunning, StartedAt: time.Now()})
	if err != nil {
		t.Fatalf("create other run: %v", err)
	}
	at := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	empID := dana.ID
	if _, err := store.Pending().Create(ctx, &domain.PendingAssignment{
		SchedulerRunID: otherRun.ID, EventRefNum: 900003, EventType: domain.EventTypeCore,
		EmployeeID: &empID, ScheduleDatetime: &at, Status: domain.PendingStatusProposed,
	}); err != nil {
		t.Fatalf("seed pending in other run: %v", err)
	}

	v := newValidator(store)
	v.SetCurrentRun("this-run")

	second := domain.Event{
		ProjectRefNum: 900004, EventType: domain.EventTypeCore,
		StartDatetime: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), DueDatetime: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}
	result, err := v.ValidateAssignment(ctx, second, dana, at.Add(30*time.Minute), nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected the other run's pending assignment to block this one via the daily limit")
	}
}

func TestValidateAssignment_PastDateBlocks(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedWeeklyAvailability(domain.WeeklyAvailability{EmployeeID: alice.ID, Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true, Saturday: true, Sunday: true})

	event := domain.Event{
		ProjectRefNum: 1, EventType: domain.EventTypeJuicerProduction,
		StartDatetime: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		DueDatetime:   time.Date(2000, 1, 5, 0, 0, 0, 0, time.UTC),
	}

	v := newValidator(store)
	result, err := v.ValidateAssignment(context.Background(), event, alice, time.Date(2000, 1, 2, 9, 0, 0, 0, time.UTC), nil, nil)
	if err != nil {
		t.Fatalf("ValidateAssignment: %v", err)
	}
	mustContain(t, result, validation.ConstraintPastDate, "past")
}
