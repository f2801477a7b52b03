package memory

import (
	"context"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *EmployeeStore) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *EmployeeStore) ListActive(_ context.Context) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Employee
	for _, e := range s.employees {
		if e.Active {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *EmployeeStore) ListActiveByJobTitle(_ context.Context, title domain.JobTitle) ([]*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Employee
	for _, e := range s.employees {
		if e.Active && e.JobTitle == title {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}
