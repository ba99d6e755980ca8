package records

// RepositoryInterface defines persistence operations for clinical records.
type RepositoryInterface interface {
	CreatePair(treatment *Treatment, record *Record) error
	ListByPatient(patientID int64) ([]View, error)
	CreateAllergy(a *Allergy) error
	ListAllergies(patientID int64) ([]Allergy, error)
}

var _ RepositoryInterface = (*Repository)(nil)
