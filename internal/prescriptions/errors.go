package prescriptions

import "errors"

var (
	ErrNotFound            = errors.New("prescription not found")
	ErrMedicationNotFound  = errors.New("medication not found")
	ErrMissingPatient      = errors.New("patient_id is required")
	ErrMissingMedication   = errors.New("medication name is required")
	ErrNegativeRefills     = errors.New("refills_remaining cannot be negative")
	ErrNegativeStock       = errors.New("in_stock cannot be negative")
	ErrInvalidTransition   = errors.New("illegal prescription status transition")
	ErrForbidden           = errors.New("not allowed to view these prescriptions")
	ErrInsufficientStock   = errors.New("medication out of stock")
	ErrDuplicateMedication = errors.New("medication already exists")
)
