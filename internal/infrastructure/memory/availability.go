package memory

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *AvailabilityStore) GetTimeOff(_ context.Context, employeeID string, date time.Time) (*domain.TimeOff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timeOff {
		if t.EmployeeID == employeeID && t.Covers(date) {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *AvailabilityStore) GetWeeklyAvailability(_ context.Context, employeeID string) (*domain.WeeklyAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.availabilty[employeeID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (s *AvailabilityStore) IsCompanyHoliday(_ context.Context, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holidays[civilKey(date)], nil
}
