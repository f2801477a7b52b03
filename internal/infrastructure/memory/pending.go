package memory

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *PendingStore) Create(_ context.Context, p *domain.PendingAssignment) (*domain.PendingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	if cp.ID == "" {
		cp.ID = newID()
	}
	s.pending[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *PendingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return errScheduleNotFound
	}
	delete(s.pending, id)
	return nil
}

func (s *PendingStore) ListActiveByRun(_ context.Context, runID string) ([]*domain.PendingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PendingAssignment
	for _, p := range s.pending {
		if p.SchedulerRunID != runID {
			continue
		}
		if p.Failed() || p.Status == domain.PendingStatusSuperseded {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *PendingStore) ListFailedByRun(_ context.Context, runID string) ([]*domain.PendingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PendingAssignment
	for _, p := range s.pending {
		if p.SchedulerRunID != runID || !p.Failed() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *PendingStore) ListOnDateForRuns(_ context.Context, runIDs []string, date time.Time, employeeID *string) ([]*domain.PendingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runSet := make(map[string]bool, len(runIDs))
	for _, id := range runIDs {
		runSet[id] = true
	}
	key := civilKey(date)
	var out []*domain.PendingAssignment
	for _, p := range s.pending {
		if !runSet[p.SchedulerRunID] || p.Failed() || p.ScheduleDatetime == nil {
			continue
		}
		if civilKey(*p.ScheduleDatetime) != key {
			continue
		}
		if employeeID != nil && (p.EmployeeID == nil || *p.EmployeeID != *employeeID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *PendingStore) GetByEventRefNumForRuns(_ context.Context, runIDs []string, eventRefNum int) (*domain.PendingAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runSet := make(map[string]bool, len(runIDs))
	for _, id := range runIDs {
		runSet[id] = true
	}
	for _, p := range s.pending {
		if runSet[p.SchedulerRunID] && p.EventRefNum == eventRefNum && !p.Failed() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
