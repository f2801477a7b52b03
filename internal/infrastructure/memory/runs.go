package memory

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *RunStore) Create(_ context.Context, r *domain.SchedulerRun) (*domain.SchedulerRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	if cp.ID == "" {
		cp.ID = newID()
	}
	s.runs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *RunStore) Update(_ context.Context, r *domain.SchedulerRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[r.ID]; !ok {
		return domain.ErrRunNotFound
	}
	cp := *r
	s.runs[r.ID] = &cp
	return nil
}

func (s *RunStore) GetByID(_ context.Context, id string) (*domain.SchedulerRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *RunStore) ListActiveIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.runs {
		if r.IsActive() {
			out = append(out, r.ID)
		}
	}
	return out, nil
}

func (s *RunStore) ListStaleRunning(_ context.Context, cutoff time.Time) ([]*domain.SchedulerRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SchedulerRun
	for _, r := range s.runs {
		if r.Status != domain.RunStatusRunning {
			continue
		}
		if r.StartedAt.Before(cutoff) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}
