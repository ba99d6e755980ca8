package appointments

import "errors"

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrMissingDoctor     = errors.New("doctor_id is required")
	ErrMissingPatient    = errors.New("patient_id is required")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidTime       = errors.New("time must be formatted as H:MM AM/PM")
	ErrInvalidTimeRange  = errors.New("appointment must end after it starts")
	ErrInvalidStatus     = errors.New("unknown appointment status")
	ErrInvalidTransition = errors.New("illegal appointment status transition")
	ErrForbidden         = errors.New("not allowed for this role")
)
