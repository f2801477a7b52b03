package memory

import (
	"context"
	"time"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"
)

func (s *EventStore) GetByRefNum(_ context.Context, refNum int) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[refNum]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *EventStore) ListAll(_ context.Context) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Event
	for _, e := range s.events {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *EventStore) ListUnscheduled(_ context.Context, asOf time.Time) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Event
	for _, e := range s.events {
		if e.IsScheduled || e.Condition != domain.ConditionUnstaffed {
			continue
		}
		if e.DueDatetime.Before(asOf) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *EventStore) MarkScheduled(_ context.Context, refNum int, scheduled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[refNum]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.IsScheduled = scheduled
	if scheduled {
		e.Condition = domain.ConditionStaffed
	} else {
		e.Condition = domain.ConditionUnstaffed
	}
	return nil
}
