package domain

import "time"

// ExistingSchedule is a committed assignment already published to the
// external work-order system. Bumping one is allowed but implies a
// republication out of scope for this engine (see internal/notify).
type ExistingSchedule struct {
	ID               string
	EventRefNum      int
	EventType        EventType // denormalized for overlap/limit checks without a join
	EmployeeID       string
	ScheduleDatetime time.Time
	BumpCount        int
}

// ScheduledLike is the capability shared by ExistingSchedule and
// PendingAssignment that the validator, conflict resolver, and engine all
// need: "this employee is booked against this event at this time." It
// lets callers treat committed and proposed-but-not-yet-approved work
// uniformly instead of threading two parallel query paths through every
// check.
type ScheduledLike interface {
	GetEventRefNum() int
	GetEventType() EventType
	GetEmployeeID() string
	GetScheduleDatetime() time.Time
	GetBumpCount() int
}

func (s *ExistingSchedule) GetEventRefNum() int             { return s.EventRefNum }
func (s *ExistingSchedule) GetEventType() EventType         { return s.EventType }
func (s *ExistingSchedule) GetEmployeeID() string           { return s.EmployeeID }
func (s *ExistingSchedule) GetScheduleDatetime() time.Time  { return s.ScheduleDatetime }
func (s *ExistingSchedule) GetBumpCount() int                { return s.BumpCount }
