package domain

// JobTitle is the closed set of roles the scheduler reasons about.
type JobTitle string

const (
	JobTitleJuicerBarista       JobTitle = "JuicerBarista"
	JobTitleLeadEventSpecialist JobTitle = "LeadEventSpecialist"
	JobTitleEventSpecialist     JobTitle = "EventSpecialist"
	JobTitleClubSupervisor      JobTitle = "ClubSupervisor"
)

// Employee is a scheduling candidate.
type Employee struct {
	ID            string
	Name          string
	JobTitle      JobTitle
	Active        bool
	JuicerTrained bool
}

// IsLead reports whether the employee can fill Lead-only event types.
func (e Employee) IsLead() bool {
	return e.JobTitle == JobTitleLeadEventSpecialist || e.JobTitle == JobTitleClubSupervisor
}

// IsJuicer reports whether the employee can fill Juicer events.
func (e Employee) IsJuicer() bool {
	return e.JobTitle == JobTitleJuicerBarista || e.JobTitle == JobTitleClubSupervisor
}
