// Package ranker defines the pluggable employee-ordering collaborator the
// Scheduling Engine consults when building a candidate pool for an empty
// slot. spec.md §1 calls out that ML-based ranking is out of scope and
// assumes a deterministic rule-based fallback when it is disabled; this
// package is that interface plus the fallback. No ML model is specified
// or implemented here.
package ranker

import "github.com/cyberiseeyou/pceventmanager-sub004/internal/domain"

// Candidate is one employee considered for a slot, annotated with
// whatever the engine already knows that a ranker might use (e.g.
// whether the employee already has a Juicer event that day).
type Candidate struct {
	Employee      domain.Employee
	AlreadyBusy   bool
}

// Ranker orders a pool of candidates from most to least preferred for a
// given event. Implementations must be deterministic for identical
// inputs (spec.md §5: "ordering... must be deterministic").
type Ranker interface {
	Rank(event domain.Event, candidates []Candidate) []domain.Employee
}

// RuleBased orders strictly by the fixed priority the original inlines at
// each call site: Lead Event Specialists first, then Event Specialists,
// then Juicer Baristas who are not already busy that day, then (for any
// event other than Core) Club Supervisors — preserving roster order within
// each tier. Busy Juicer Baristas, and Club Supervisors for a Core event,
// are dropped. This is the "disabled ML ranker" fallback spec.md §1
// requires to exist.
type RuleBased struct{}

func NewRuleBased() *RuleBased { return &RuleBased{} }

func (RuleBased) Rank(event domain.Event, candidates []Candidate) []domain.Employee {
	tier := func(c Candidate) int {
		switch {
		case c.Employee.JobTitle == domain.JobTitleLeadEventSpecialist:
			return 0
		case c.Employee.JobTitle == domain.JobTitleEventSpecialist:
			return 1
		case c.Employee.JobTitle == domain.JobTitleJuicerBarista && !c.AlreadyBusy:
			return 2
		case c.Employee.JobTitle == domain.JobTitleClubSupervisor && event.EventType != domain.EventTypeCore:
			return 3
		default:
			return 4
		}
	}

	buckets := make([][]domain.Employee, 5)
	for _, c := range candidates {
		t := tier(c)
		buckets[t] = append(buckets[t], c.Employee)
	}

	var out []domain.Employee
	for _, b := range buckets[:4] {
		out = append(out, b...)
	}
	return out
}
