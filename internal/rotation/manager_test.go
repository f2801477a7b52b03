package rotation_test

import (
	"context"
	"testing"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/infrastructure/memory"
	"github.com/cyberiseeyou/pceventmanager-sub004/internal/rotation"
)

func TestGetRotationEmployee_WeeklyPrimary(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationJuicer, EmployeeID: alice.ID})

	mgr := rotation.NewManager(store.Rotations(), store.Employees())
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	got, err := mgr.GetRotationEmployee(context.Background(), monday, domain.RotationJuicer, false)
	if err != nil {
		t.Fatalf("GetRotationEmployee: %v", err)
	}
	if got == nil || got.ID != alice.ID {
		t.Fatalf("expected alice, got %+v", got)
	}
}

func TestGetRotationEmployee_ExceptionWinsOverWeekly(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	bob := domain.Employee{ID: "bob", Name: "Bob", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedEmployee(bob)
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationJuicer, EmployeeID: alice.ID})

	mgr := rotation.NewManager(store.Rotations(), store.Employees())
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if err := mgr.AddException(context.Background(), "2026-03-02", domain.RotationJuicer, bob.ID, nil); err != nil {
		t.Fatalf("AddException: %v", err)
	}

	got, err := mgr.GetRotationEmployee(context.Background(), monday, domain.RotationJuicer, false)
	if err != nil {
		t.Fatalf("GetRotationEmployee: %v", err)
	}
	if got == nil || got.ID != bob.ID {
		t.Fatalf("expected exception to win with bob, got %+v", got)
	}
}

func TestGetRotationWithBackup_NoDistinctBackupReturnsNil(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationJuicer, EmployeeID: alice.ID})

	mgr := rotation.NewManager(store.Rotations(), store.Employees())
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	primary, backup, err := mgr.GetRotationWithBackup(context.Background(), monday, domain.RotationJuicer)
	if err != nil {
		t.Fatalf("GetRotationWithBackup: %v", err)
	}
	if primary == nil || primary.ID != alice.ID {
		t.Fatalf("expected primary alice, got %+v", primary)
	}
	if backup != nil {
		t.Fatalf("expected nil backup when none configured, got %+v", backup)
	}
}

func TestGetSecondaryLead_SkipsPrimary(t *testing.T) {
	store := memory.NewStore()
	dana := domain.Employee{ID: "dana", Name: "Dana", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true}
	omar := domain.Employee{ID: "omar", Name: "Omar", JobTitle: domain.JobTitleLeadEventSpecialist, Active: true}
	store.SeedEmployee(dana)
	store.SeedEmployee(omar)
	store.SeedRotation(domain.RotationAssignment{DayOfWeek: 0, RotationType: domain.RotationPrimaryLead, EmployeeID: dana.ID})

	mgr := rotation.NewManager(store.Rotations(), store.Employees())
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	secondary, err := mgr.GetSecondaryLead(context.Background(), monday)
	if err != nil {
		t.Fatalf("GetSecondaryLead: %v", err)
	}
	if secondary == nil || secondary.ID != omar.ID {
		t.Fatalf("expected omar as secondary lead, got %+v", secondary)
	}
}

func TestSetRotation_RejectsUnknownEmployee(t *testing.T) {
	store := memory.NewStore()
	mgr := rotation.NewManager(store.Rotations(), store.Employees())

	ok, err := mgr.SetRotation(context.Background(), 0, domain.RotationJuicer, "nobody")
	if ok || err == nil {
		t.Fatalf("expected SetRotation to fail for unknown employee, got ok=%v err=%v", ok, err)
	}
}

func TestSetRotation_RejectsInvalidDayOfWeek(t *testing.T) {
	store := memory.NewStore()
	alice := domain.Employee{ID: "alice", Name: "Alice", JobTitle: domain.JobTitleJuicerBarista, Active: true}
	store.SeedEmployee(alice)
	mgr := rotation.NewManager(store.Rotations(), store.Employees())

	_, err := mgr.SetRotation(context.Background(), 7, domain.RotationJuicer, alice.ID)
	if err == nil {
		t.Fatal("expected error for day_of_week=7")
	}
}
