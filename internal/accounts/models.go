package accounts

import (
	"time"

	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/identity"
	"github.com/health-hub/records-service/internal/pagination"
)

// Patient represents a patient account. LoginID, Sex and DateOfBirth are
// derived from the national identity number at creation time.
type Patient struct {
	PatientID    int64     `json:"patient_id"`
	LoginID      string    `json:"login_id"`
	FirstName    string    `json:"fname"`
	LastName     string    `json:"lname"`
	NationalID   string    `json:"national_id_number"`
	Sex          string    `json:"sex"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email"`
	BloodType    string    `json:"blood_type,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Doctor represents a doctor account. EmployeeID is derived from the
// username at creation time.
type Doctor struct {
	DoctorID      int64     `json:"doctor_id"`
	EmployeeID    string    `json:"employee_id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Specialty     string    `json:"specialty,omitempty"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Pharmacist represents a pharmacist account.
type Pharmacist struct {
	PharmacistID  int64     `json:"pharmacist_id"`
	EmployeeID    string    `json:"employee_id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Admin represents an administrator account.
type Admin struct {
	AdminID      int64      `json:"admin_id"`
	Username     string     `json:"username"`
	FullName     string     `json:"fullname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResponse carries the minted token and a role-tagged summary.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Role        string `json:"role"`
}

// AddUserRequest is the role-tagged creation body. Field relevance depends
// on the role discriminator; irrelevant fields are ignored.
type AddUserRequest struct {
	Role string `json:"role"`

	// Patient fields
	FirstName  string `json:"fname,omitempty"`
	LastName   string `json:"lname,omitempty"`
	NationalID string `json:"national_id_number,omitempty"`
	Address    string `json:"address,omitempty"`
	BloodType  string `json:"blood_type,omitempty"`

	// Staff fields
	Username      string `json:"username,omitempty"`
	Name          string `json:"name,omitempty"`
	FullName      string `json:"fullname,omitempty"`
	Specialty     string `json:"specialty,omitempty"`
	LicenseNumber string `json:"license_number,omitempty"`

	// Common fields
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// ValidateFor checks the required fields for the given role.
func (r *AddUserRequest) ValidateFor(role auth.Role) error {
	if r.Password == "" {
		return ErrMissingPassword
	}
	switch role {
	case auth.RolePatient:
		if r.FirstName == "" || r.LastName == "" {
			return ErrMissingName
		}
		if r.Email == "" {
			return ErrMissingEmail
		}
		return identity.ValidateNationalID(r.NationalID)
	case auth.RoleDoctor:
		if r.Username == "" {
			return ErrMissingUsername
		}
		if r.Name == "" {
			return ErrMissingName
		}
		if r.LicenseNumber == "" {
			return ErrMissingLicenseNumber
		}
		if r.Email == "" {
			return ErrMissingEmail
		}
		return nil
	case auth.RolePharmacist:
		if r.Username == "" {
			return ErrMissingUsername
		}
		if r.Name == "" {
			return ErrMissingName
		}
		if r.LicenseNumber == "" {
			return ErrMissingLicenseNumber
		}
		if r.Email == "" {
			return ErrMissingEmail
		}
		return nil
	case auth.RoleAdmin:
		if r.Username == "" {
			return ErrMissingUsername
		}
		if r.FullName == "" {
			return ErrMissingName
		}
		if r.Email == "" {
			return ErrMissingEmail
		}
		return nil
	}
	return ErrInvalidRole
}

// UpdateUserRequest is the allow-listed partial-update body. Only the fields
// named here can be written; activation flags, password hashes and primary
// keys are not reachable through updates.
type UpdateUserRequest struct {
	Role string `json:"role"`

	FirstName *string `json:"fname,omitempty"`
	LastName  *string `json:"lname,omitempty"`
	Name      *string `json:"name,omitempty"`
	FullName  *string `json:"fullname,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Address   *string `json:"address,omitempty"`
	BloodType *string `json:"blood_type,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// DeleteUserRequest is the body of DELETE /api/delete_user/{id}.
type DeleteUserRequest struct {
	Role string `json:"role"`
}

// AccountSummary is the role-tagged row shape of list endpoints.
type AccountSummary struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// PaginatedPatientsResponse is the paginated patient list shape.
type PaginatedPatientsResponse struct {
	Patients   []Patient       `json:"patients"`
	Pagination pagination.Meta `json:"pagination"`
}

// PaginatedDoctorsResponse is the paginated doctor list shape.
type PaginatedDoctorsResponse struct {
	Doctors    []Doctor        `json:"doctors"`
	Pagination pagination.Meta `json:"pagination"`
}
