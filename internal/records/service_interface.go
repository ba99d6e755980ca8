package records

import "context"

// ServiceInterface defines the clinical record business operations.
type ServiceInterface interface {
	Create(ctx context.Context, doctorID int64, req CreateRequest) (*Record, *Treatment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]View, error)
	AddAllergy(ctx context.Context, req AddAllergyRequest) (*Allergy, error)
	ListAllergies(ctx context.Context, patientID int64) ([]Allergy, error)
}

var _ ServiceInterface = (*Service)(nil)
