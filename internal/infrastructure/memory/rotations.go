package memory

import (
	"context"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *RotationStore) Get(_ context.Context, dayOfWeek int, rotationType domain.RotationType) (*domain.RotationAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rotations[rotationKey(dayOfWeek, rotationType)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *RotationStore) Upsert(_ context.Context, a domain.RotationAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := a
	s.rotations[rotationKey(a.DayOfWeek, a.RotationType)] = &cp
	return nil
}

func (s *RotationStore) ReplaceAll(_ context.Context, assignments []domain.RotationAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotations = make(map[string]*domain.RotationAssignment, len(assignments))
	for _, a := range assignments {
		cp := a
		s.rotations[rotationKey(a.DayOfWeek, a.RotationType)] = &cp
	}
	return nil
}

func (s *RotationStore) ListAll(_ context.Context) ([]domain.RotationAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.RotationAssignment, 0, len(s.rotations))
	for _, a := range s.rotations {
		out = append(out, *a)
	}
	return out, nil
}

func (s *RotationStore) GetException(_ context.Context, date string, rotationType domain.RotationType) (*domain.RotationException, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.exceptions {
		if e.Date == date && e.RotationType == rotationType {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *RotationStore) AddException(_ context.Context, e domain.RotationException) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	for id, existing := range s.exceptions {
		if existing.Date == e.Date && existing.RotationType == e.RotationType {
			delete(s.exceptions, id)
			if cp.ID == "" {
				cp.ID = id
			}
		}
	}
	if cp.ID == "" {
		cp.ID = newID()
	}
	s.exceptions[cp.ID] = &cp
	return nil
}

func (s *RotationStore) ListExceptions(_ context.Context, start, end string) ([]domain.RotationException, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RotationException
	for _, e := range s.exceptions {
		if e.Date < start || e.Date > end {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *RotationStore) DeleteException(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exceptions[id]; !ok {
		return domain.ErrExceptionNotFound
	}
	delete(s.exceptions, id)
	return nil
}
