package domain

// RotationType distinguishes the two rotation roles the engine resolves
// day-by-day.
type RotationType string

const (
	RotationJuicer      RotationType = "juicer"
	RotationPrimaryLead RotationType = "primary_lead"
)

// RotationAssignment maps (day_of_week, rotation_type) to a primary
// employee and an optional backup. Unique on (DayOfWeek, RotationType).
type RotationAssignment struct {
	DayOfWeek        int // 0=Monday .. 6=Sunday
	RotationType     RotationType
	EmployeeID       string
	BackupEmployeeID *string
}

// RotationException is a one-time override for a specific calendar date
// that takes precedence over the weekly RotationAssignment.
type RotationException struct {
	ID           string
	Date         string // YYYY-MM-DD, local civil date
	RotationType RotationType
	EmployeeID   string
	Reason       *string
}
