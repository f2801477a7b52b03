package memory

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

var errScheduleNotFound = domainErr("committed schedule not found")

type domainErr string

func (e domainErr) Error() string { return string(e) }

func (s *ScheduleStore) Create(_ context.Context, sch *domain.ExistingSchedule) (*domain.ExistingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sch
	if cp.ID == "" {
		cp.ID = newID()
	}
	s.schedules[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *ScheduleStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return errScheduleNotFound
	}
	delete(s.schedules, id)
	return nil
}

func (s *ScheduleStore) GetByEventRefNum(_ context.Context, eventRefNum int) (*domain.ExistingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sch := range s.schedules {
		if sch.EventRefNum == eventRefNum {
			cp := *sch
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *ScheduleStore) ListOnDate(_ context.Context, date time.Time, employeeID *string) ([]*domain.ExistingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := civilKey(date)
	var out []*domain.ExistingSchedule
	for _, sch := range s.schedules {
		if civilKey(sch.ScheduleDatetime) != key {
			continue
		}
		if employeeID != nil && sch.EmployeeID != *employeeID {
			continue
		}
		cp := *sch
		out = append(out, &cp)
	}
	return out, nil
}

func (s *ScheduleStore) ListForEmployeeBetween(_ context.Context, employeeID string, start, end time.Time) ([]*domain.ExistingSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ExistingSchedule
	for _, sch := range s.schedules {
		if sch.EmployeeID != employeeID {
			continue
		}
		if sch.ScheduleDatetime.Before(start) || !sch.ScheduleDatetime.Before(end) {
			continue
		}
		cp := *sch
		out = append(out, &cp)
	}
	return out, nil
}

func (s *ScheduleStore) UpdateDatetime(_ context.Context, id string, newDatetime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[id]
	if ok {
		sch.ScheduleDatetime = newDatetime
		return nil
	}
	if p, ok := s.pending[id]; ok {
		p.ScheduleDatetime = &newDatetime
		return nil
	}
	return errScheduleNotFound
}

func (s *ScheduleStore) IncrementBumpCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sch, ok := s.schedules[id]; ok {
		sch.BumpCount++
		return nil
	}
	if p, ok := s.pending[id]; ok {
		p.BumpCount++
		return nil
	}
	return errScheduleNotFound
}
