package records

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrMissingPatient     = errors.New("patient_id is required")
	ErrMissingDescription = errors.New("description is required")
	ErrMissingTreatment   = errors.New("treatment payload is required")
	ErrMissingAllergy     = errors.New("allergy name is required")
	ErrInvalidRecordType  = errors.New("unknown record type")
	ErrInvalidSeverity    = errors.New("unknown allergy severity")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrDuplicateAllergy   = errors.New("allergy already recorded for this patient")
)
