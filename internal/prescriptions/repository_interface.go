package prescriptions

import "time"

// RepositoryInterface defines persistence operations for prescriptions and
// the medication inventory.
type RepositoryInterface interface {
	Create(p *Prescription) error
	GetByID(id int64) (*Prescription, error)
	Issue(id, pharmacistID int64) (*Prescription, error)
	UpdateStatus(id int64, from, to string) error
	ListByPatient(patientID int64) ([]Prescription, error)
	ListByDoctor(doctorID int64) ([]Prescription, error)
	ListAll() ([]Prescription, error)
	ListForPharmacist(pharmacistID int64) ([]Prescription, error)
	ExpirePending(cutoff time.Time) (int64, error)

	CreateMedication(m *Medication) error
	ListMedications() ([]Medication, error)
}

var _ RepositoryInterface = (*Repository)(nil)
