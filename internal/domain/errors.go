package domain

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrRunNotFound      = errors.New("scheduler run not found")

	ErrInvalidDayOfWeek  = errors.New("day_of_week must be between 0 and 6")
	ErrInvalidRotation   = errors.New("unknown rotation type")
	ErrRotationNoEmployee = errors.New("rotation employee does not exist")

	ErrExceptionNotFound = errors.New("rotation exception not found")
	ErrScheduleNotFound  = errors.New("committed schedule not found")
	ErrPendingNotFound   = errors.New("pending assignment not found")
)
