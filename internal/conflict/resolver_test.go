package conflict_test

import (
	"context"
	"testing"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/conflict"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/memory"
)

func TestCalculatePriorityScore_FloorsAtZero(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	overdue := domain.Event{DueDatetime: now.Add(-48 * time.Hour)}

	if got := conflict.CalculatePriorityScore(overdue, now); got != 0 {
		t.Fatalf("CalculatePriorityScore(overdue) = %d, want 0", got)
	}

	dueInThree := domain.Event{DueDatetime: now.Add(3 * 24 * time.Hour)}
	if got := conflict.CalculatePriorityScore(dueInThree, now); got != 3 {
		t.Fatalf("CalculatePriorityScore(dueInThree) = %d, want 3", got)
	}
}

func TestFindBumpableEvents_ExcludesSupervisorAndNearDue(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()
	target := civilMidnight(now.AddDate(0, 0, 5))

	core := domain.Event{ProjectRefNum: 1, EventType: domain.EventTypeCore, DueDatetime: now.AddDate(0, 0, 10)}
	supervisor := domain.Event{ProjectRefNum: 2, EventType: domain.EventTypeSupervisor, DueDatetime: now.AddDate(0, 0, 10)}
	nearDue := domain.Event{ProjectRefNum: 3, EventType: domain.EventTypeCore, DueDatetime: now.AddDate(0, 0, 1)}
	store.SeedEvent(core)
	store.SeedEvent(supervisor)
	store.SeedEvent(nearDue)

	emp := "dana"
	for _, ev := range []domain.Event{core, supervisor, nearDue} {
		if _, err := store.Schedules().Create(ctx, &domain.ExistingSchedule{
			EventRefNum: ev.ProjectRefNum, EventType: ev.EventType, EmployeeID: emp, ScheduleDatetime: target,
		}); err != nil {
			t.Fatalf("seed schedule for %d: %v", ev.ProjectRefNum, err)
		}
	}

	resolver := conflict.NewResolver(store.Schedules(), store.Events(), store.Employees())
	scored, err := resolver.FindBumpableEvents(ctx, target, &emp)
	if err != nil {
		t.Fatalf("FindBumpableEvents: %v", err)
	}
	if len(scored) != 1 || scored[0].Event.ProjectRefNum != core.ProjectRefNum {
		t.Fatalf("expected only the Core event due in 10 days to be bumpable, got %+v", scored)
	}
}

func TestValidateSwap_RequiresStrictlyLessUrgentAndMinDaysToDue(t *testing.T) {
	now := time.Now()
	high := domain.Event{ProjectRefNum: 1, DueDatetime: now.AddDate(0, 0, 1)}
	lowFarOut := domain.Event{ProjectRefNum: 2, DueDatetime: now.AddDate(0, 0, 10)}
	lowTooClose := domain.Event{ProjectRefNum: 3, DueDatetime: now.Add(36 * time.Hour)}
	lowMoreUrgent := domain.Event{ProjectRefNum: 4, DueDatetime: now.Add(-time.Hour)}

	if !conflict.ValidateSwap(high, lowFarOut) {
		t.Fatal("expected swap to be valid: low is strictly less urgent and far from its own due date")
	}
	if conflict.ValidateSwap(high, lowTooClose) {
		t.Fatal("expected swap to be rejected: low is within MinDaysToDue of its own due date")
	}
	if conflict.ValidateSwap(high, lowMoreUrgent) {
		t.Fatal("expected swap to be rejected: low is more urgent than high, not less")
	}
}

func TestFindAlternativeDates_SkipsWeekendsAndBookedDays(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	event := domain.Event{
		ProjectRefNum: 1,
		StartDatetime: monday,
		DueDatetime:   monday.AddDate(0, 0, 7),
	}
	empID := "dana"
	tuesday := monday.AddDate(0, 0, 1)
	if _, err := store.Schedules().Create(ctx, &domain.ExistingSchedule{
		EventRefNum: 99, EmployeeID: empID, ScheduleDatetime: tuesday.Add(10 * time.Hour),
	}); err != nil {
		t.Fatalf("seed booked day: %v", err)
	}

	resolver := conflict.NewResolver(store.Schedules(), store.Events(), store.Employees())
	dates, err := resolver.FindAlternativeDates(ctx, event, empID, nil)
	if err != nil {
		t.Fatalf("FindAlternativeDates: %v", err)
	}

	for _, d := range dates {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Fatalf("FindAlternativeDates returned a weekend date: %v", d)
		}
		if sameDay(d, tuesday) {
			t.Fatalf("FindAlternativeDates returned an already-booked day: %v", d)
		}
	}
	if !containsDay(dates, monday) {
		t.Fatal("expected Monday (unbooked weekday) to be a candidate")
	}
}

func civilMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func containsDay(dates []time.Time, d time.Time) bool {
	for _, c := range dates {
		if sameDay(c, d) {
			return true
		}
	}
	return false
}
