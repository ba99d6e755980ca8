package appointments

// RepositoryInterface defines persistence operations for appointments.
type RepositoryInterface interface {
	Create(a *Appointment) error
	GetByID(id int64) (*Appointment, error)
	UpdateStatus(id int64, from, to string) error
	ListByPatient(patientID int64) ([]View, error)
	ListByDoctor(doctorID int64) ([]View, error)
	ListAll() ([]View, error)
}

var _ RepositoryInterface = (*Repository)(nil)
