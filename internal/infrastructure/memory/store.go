// Package memory is an in-process implementation of every interface in
// internal/repository, used by cmd/runonce and by package tests that
// want a real (if volatile) store instead of hand-rolled fakes for
// multi-repository scenarios. Grounded on the teacher repo's "usecase
// depends on interface, not concrete implementation" note in the
// retained reference material — this is the "mock in tests" half of
// that note, generalized into a reusable fixture.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

// Store backs every repository interface with plain Go maps guarded by
// one mutex. It is not optimized for concurrency beyond correctness —
// there is exactly one engine run active at a time per spec.md §5.
type Store struct {
	mu sync.Mutex

	employees map[string]*domain.Employee
	events    map[int]*domain.Event

	schedules map[string]*domain.ExistingSchedule
	pending   map[string]*domain.PendingAssignment
	runs      map[string]*domain.SchedulerRun

	rotations  map[string]*domain.RotationAssignment // key: "<day>/<type>"
	exceptions map[string]*domain.RotationException   // key: id

	timeOff     []domain.TimeOff
	availabilty map[string]*domain.WeeklyAvailability
	holidays    map[string]bool // key: YYYY-MM-DD
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]*domain.Employee),
		events:      make(map[int]*domain.Event),
		schedules:   make(map[string]*domain.ExistingSchedule),
		pending:     make(map[string]*domain.PendingAssignment),
		runs:        make(map[string]*domain.SchedulerRun),
		rotations:   make(map[string]*domain.RotationAssignment),
		exceptions:  make(map[string]*domain.RotationException),
		availabilty: make(map[string]*domain.WeeklyAvailability),
		holidays:    make(map[string]bool),
	}
}

// Ping satisfies health.Pinger; the in-memory store is always reachable.
func (s *Store) Ping(context.Context) error { return nil }

// The repository package defines seven interfaces, two of which each
// declare a same-named, differently-typed Create/Delete/Update pair
// (ScheduleRepository and PendingAssignmentRepository both need
// Create/Delete). A single method set can't satisfy both under one
// name, so Store exposes one thin view type per interface; all views
// share the same underlying maps and mutex.
type (
	EmployeeStore    struct{ *Store }
	EventStore       struct{ *Store }
	ScheduleStore    struct{ *Store }
	PendingStore     struct{ *Store }
	RunStore         struct{ *Store }
	RotationStore    struct{ *Store }
	AvailabilityStore struct{ *Store }
)

func (s *Store) Employees() *EmployeeStore       { return &EmployeeStore{s} }
func (s *Store) Events() *EventStore             { return &EventStore{s} }
func (s *Store) Schedules() *ScheduleStore       { return &ScheduleStore{s} }
func (s *Store) Pending() *PendingStore          { return &PendingStore{s} }
func (s *Store) Runs() *RunStore                 { return &RunStore{s} }
func (s *Store) Rotations() *RotationStore       { return &RotationStore{s} }
func (s *Store) Availability() *AvailabilityStore { return &AvailabilityStore{s} }

func civilKey(t time.Time) string { return t.Format("2006-01-02") }

// Seeding helpers used by cmd/runonce; not part of any repository
// interface.

func (s *Store) SeedEmployee(e domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = &e
}

func (s *Store) SeedEvent(e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := e
	s.events[e.ProjectRefNum] = &ev
}

func (s *Store) SeedRotation(a domain.RotationAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotations[rotationKey(a.DayOfWeek, a.RotationType)] = &a
}

func (s *Store) SeedWeeklyAvailability(w domain.WeeklyAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availabilty[w.EmployeeID] = &w
}

func (s *Store) SeedHoliday(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays[civilKey(date)] = true
}

func (s *Store) SeedTimeOff(t domain.TimeOff) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeOff = append(s.timeOff, t)
}

func rotationKey(dayOfWeek int, rotationType domain.RotationType) string {
	return fmt.Sprintf("%d/%s", dayOfWeek, rotationType)
}

func newID() string { return uuid.NewString() }
