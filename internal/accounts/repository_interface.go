package accounts

// RepositoryInterface defines persistence operations for principal accounts.
type RepositoryInterface interface {
	CreatePatient(p *Patient) error
	GetPatientByID(id int64) (*Patient, error)
	GetPatientByEmail(email string) (*Patient, error)
	ListPatients(limit, offset int) ([]Patient, int, error)
	UpdatePatient(p *Patient) error

	CreateDoctor(d *Doctor) error
	GetDoctorByID(id int64) (*Doctor, error)
	GetDoctorByUsername(username string) (*Doctor, error)
	ListDoctors(limit, offset int) ([]Doctor, int, error)
	UpdateDoctor(d *Doctor) error

	CreatePharmacist(p *Pharmacist) error
	GetPharmacistByID(id int64) (*Pharmacist, error)
	GetPharmacistByUsername(username string) (*Pharmacist, error)
	ListPharmacists() ([]Pharmacist, error)
	UpdatePharmacist(p *Pharmacist) error

	CreateAdmin(a *Admin) error
	GetAdminByID(id int64) (*Admin, error)
	GetAdminByUsername(username string) (*Admin, error)
	ListAdmins() ([]Admin, error)
	UpdateAdmin(a *Admin) error
	TouchAdminLastLogin(id int64) error

	Deactivate(role string, id int64) error
	HardDeleteAdmin(id int64) error
}

var _ RepositoryInterface = (*Repository)(nil)
