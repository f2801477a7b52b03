// Package validation holds the value types constraint checking and
// conflict resolution communicate in: violations, validation results,
// and swap proposals. It has no behavior of its own.
package validation

import "fmt"

// ConstraintType is the closed set of rules the Constraint Validator
// evaluates.
type ConstraintType string

const (
	ConstraintAvailability     ConstraintType = "availability"
	ConstraintTimeOff          ConstraintType = "time_off"
	ConstraintRole             ConstraintType = "role"
	ConstraintDailyLimit       ConstraintType = "daily_limit"
	ConstraintAlreadyScheduled ConstraintType = "already_scheduled"
	ConstraintDueDate          ConstraintType = "due_date"
	ConstraintPastDate         ConstraintType = "past_date"
	ConstraintCompanyHoliday   ConstraintType = "company_holiday"
)

// Severity marks whether a violation blocks the assignment outright.
type Severity string

const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// Violation is a single broken (or softly discouraged) constraint.
type Violation struct {
	Type     ConstraintType
	Message  string
	Severity Severity
	Details  map[string]any
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Type, v.Message)
}

// Result is the outcome of validating one (event, employee, datetime)
// triple.
type Result struct {
	IsValid    bool
	Violations []Violation
}

// AddViolation appends v, flipping IsValid false if it is a hard violation.
func (r *Result) AddViolation(v Violation) {
	r.Violations = append(r.Violations, v)
	if v.Severity == SeverityHard {
		r.IsValid = false
	}
}

// HardViolations filters to hard-severity violations only.
func (r Result) HardViolations() []Violation {
	out := make([]Violation, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.Severity == SeverityHard {
			out = append(out, v)
		}
	}
	return out
}

// SoftViolations filters to soft-severity violations only.
func (r Result) SoftViolations() []Violation {
	out := make([]Violation, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.Severity == SeveritySoft {
			out = append(out, v)
		}
	}
	return out
}

// HasHardViolations reports whether any hard violation is present.
func (r Result) HasHardViolations() bool {
	return len(r.HardViolations()) > 0
}

// HasOnly reports whether every violation present is one of the given
// types — used by Wave 1 to decide whether blocking violations are all
// "bumpable" (DailyLimit, AlreadyScheduled) or something else entirely.
func (r Result) HasOnly(types ...ConstraintType) bool {
	allowed := make(map[ConstraintType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	for _, v := range r.HardViolations() {
		if !allowed[v.Type] {
			return false
		}
	}
	return true
}

// SwapProposal proposes bumping LowPriorityEventRef to free a slot for
// HighPriorityEventRef.
type SwapProposal struct {
	HighPriorityEventRef int
	LowPriorityEventRef  int
	Reason               string
	EmployeeID           string
	ProposedDate         string // YYYY-MM-DD
}

func (s SwapProposal) String() string {
	return fmt.Sprintf("Swap Event %d -> Event %d (Reason: %s)", s.LowPriorityEventRef, s.HighPriorityEventRef, s.Reason)
}

// Decision is the outcome of one scheduling attempt, successful or not.
type Decision struct {
	EventRefNum      int
	EmployeeID       *string
	ScheduleDatetime *string
	ScheduleTime     *string
	Success          bool
	IsSwap           bool
	SwapProposal     *SwapProposal
	FailureReason    *string
	ValidationResult *Result
}
