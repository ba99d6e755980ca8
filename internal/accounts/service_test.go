package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/credentials"
	"github.com/health-hub/records-service/internal/pagination"
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer(auth.Config{Secret: "test-secret", TokenTTL: time.Hour})
}

func testService(repo RepositoryInterface) *Service {
	return NewService(repo, credentials.NewStore(), testIssuer(), nil, nil, nil)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := credentials.NewStore().Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return hash
}

func TestLogin_PatientSuccess(t *testing.T) {
	hash := mustHash(t, "secret123")

	mockRepo := &mockRepository{
		getPatientByEmailFunc: func(email string) (*Patient, error) {
			if email != "jane@example.com" {
				t.Errorf("Expected lookup by email 'jane@example.com', got '%s'", email)
			}
			return &Patient{
				PatientID:    7,
				FirstName:    "Jane",
				LastName:     "Doe",
				Email:        email,
				PasswordHash: hash,
				IsActive:     true,
			}, nil
		},
	}

	service := testService(mockRepo)

	resp, err := service.Login(context.Background(), LoginRequest{
		Username: "jane@example.com",
		Password: "secret123",
		Role:     "patient",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("Expected a non-empty access token")
	}
	if resp.Name != "Jane" || resp.Surname != "Doe" {
		t.Errorf("Expected name Jane Doe, got '%s %s'", resp.Name, resp.Surname)
	}
	if resp.Role != "patient" {
		t.Errorf("Expected role 'patient', got '%s'", resp.Role)
	}

	pr, err := testIssuer().ParseAndVerifyToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("Minted token did not verify: %v", err)
	}
	if pr.ID != 7 || pr.Role != auth.RolePatient {
		t.Errorf("Expected principal 7/patient, got %d/%s", pr.ID, pr.Role)
	}
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	mockRepo := &mockRepository{
		getDoctorByUsernameFunc: func(username string) (*Doctor, error) {
			return nil, ErrNotFound
		},
	}

	service := testService(mockRepo)

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "whatever",
		Role:     "doctor",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash := mustHash(t, "right-password")

	mockRepo := &mockRepository{
		getDoctorByUsernameFunc: func(username string) (*Doctor, error) {
			return &Doctor{DoctorID: 3, Name: "Greg House", PasswordHash: hash, IsActive: true}, nil
		},
	}

	service := testService(mockRepo)

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "ghouse",
		Password: "wrong-password",
		Role:     "doctor",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	hash := mustHash(t, "secret123")

	mockRepo := &mockRepository{
		getPatientByEmailFunc: func(email string) (*Patient, error) {
			return &Patient{PatientID: 1, PasswordHash: hash, IsActive: false}, nil
		},
	}

	service := testService(mockRepo)

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "gone@example.com",
		Password: "secret123",
		Role:     "patient",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for inactive account, got: %v", err)
	}
}

func TestLogin_InvalidRole(t *testing.T) {
	service := testService(&mockRepository{})

	_, err := service.Login(context.Background(), LoginRequest{
		Username: "someone",
		Password: "secret",
		Role:     "superuser",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for unknown role, got: %v", err)
	}
}

func TestLogin_AdminRecordsLastLogin(t *testing.T) {
	hash := mustHash(t, "admin-pass")
	var touched int64

	mockRepo := &mockRepository{
		getAdminByUsernameFunc: func(username string) (*Admin, error) {
			return &Admin{AdminID: 9, Username: username, FullName: "Ada Lovelace", PasswordHash: hash, IsActive: true}, nil
		},
		touchAdminLastLoginFunc: func(id int64) error {
			touched = id
			return nil
		},
	}

	service := testService(mockRepo)

	resp, err := service.Login(context.Background(), LoginRequest{
		Username: "ada",
		Password: "admin-pass",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if touched != 9 {
		t.Errorf("Expected last login touch for admin 9, got %d", touched)
	}
	if resp.Name != "Ada" || resp.Surname != "Lovelace" {
		t.Errorf("Expected split name Ada / Lovelace, got '%s' / '%s'", resp.Name, resp.Surname)
	}
}

func TestAdd_PatientDerivesIdentity(t *testing.T) {
	var created *Patient

	mockRepo := &mockRepository{
		createPatientFunc: func(p *Patient) error {
			p.PatientID = 42
			created = p
			return nil
		},
	}

	service := testService(mockRepo)

	id, err := service.Add(context.Background(), &AddUserRequest{
		Role:       "patient",
		FirstName:  "Jane",
		LastName:   "Doe",
		NationalID: "0203057001234",
		Email:      "jane@example.com",
		Password:   "secret123",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected id 42, got %d", id)
	}
	if created == nil {
		t.Fatal("Expected patient to be created")
	}

	wantLoginID := "P" + time.Now().Format("06") + "7001234"
	if created.LoginID != wantLoginID {
		t.Errorf("Expected login_id '%s', got '%s'", wantLoginID, created.LoginID)
	}
	if created.Sex != "M" {
		t.Errorf("Expected sex 'M' for digit 7, got '%s'", created.Sex)
	}
	if got := created.DateOfBirth.Format("2006-01-02"); got != "2002-03-05" {
		t.Errorf("Expected date of birth 2002-03-05, got %s", got)
	}
	if created.PasswordHash == "secret123" || created.PasswordHash == "" {
		t.Error("Expected password to be stored as a bcrypt digest")
	}
}

func TestAdd_DoctorDerivesEmployeeID(t *testing.T) {
	var created *Doctor

	mockRepo := &mockRepository{
		createDoctorFunc: func(d *Doctor) error {
			d.DoctorID = 5
			created = d
			return nil
		},
	}

	service := testService(mockRepo)

	_, err := service.Add(context.Background(), &AddUserRequest{
		Role:          "doctor",
		Username:      "ghouse",
		Name:          "Greg House",
		LicenseNumber: "MD-1001",
		Email:         "house@example.com",
		Password:      "vicodin1",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.EmployeeID == "" || created.EmployeeID[0] != 'D' {
		t.Errorf("Expected D-prefixed employee id, got '%s'", created.EmployeeID)
	}
}

func TestAdd_UnknownRole(t *testing.T) {
	service := testService(&mockRepository{})

	_, err := service.Add(context.Background(), &AddUserRequest{Role: "nurse", Password: "x"})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("Expected ErrInvalidRole, got: %v", err)
	}
}

func TestAdd_MissingRequiredFields(t *testing.T) {
	service := testService(&mockRepository{})

	_, err := service.Add(context.Background(), &AddUserRequest{
		Role:     "doctor",
		Name:     "No Username",
		Email:    "x@example.com",
		Password: "secret",
	})
	if !errors.Is(err, ErrMissingUsername) {
		t.Fatalf("Expected ErrMissingUsername, got: %v", err)
	}
}

func TestUpdate_AllowListedFieldsOnly(t *testing.T) {
	existing := &Patient{
		PatientID: 1,
		FirstName: "Jane",
		LastName:  "Doe",
		LoginID:   "P247001234",
		Email:     "old@example.com",
		IsActive:  true,
	}
	var updated *Patient

	mockRepo := &mockRepository{
		getPatientByIDFunc: func(id int64) (*Patient, error) {
			p := *existing
			return &p, nil
		},
		updatePatientFunc: func(p *Patient) error {
			updated = p
			return nil
		},
	}

	service := testService(mockRepo)

	email := "new@example.com"
	err := service.Update(context.Background(), "patient", 1, &UpdateUserRequest{
		Role:  "patient",
		Email: &email,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if updated.Email != "new@example.com" {
		t.Errorf("Expected email to change, got '%s'", updated.Email)
	}
	if updated.FirstName != "Jane" || updated.LoginID != "P247001234" {
		t.Error("Expected untouched fields to keep their values")
	}
}

func TestDelete_PatientIsSoft(t *testing.T) {
	var deactivatedRole string
	var deactivatedID int64

	mockRepo := &mockRepository{
		deactivateFunc: func(role string, id int64) error {
			deactivatedRole, deactivatedID = role, id
			return nil
		},
	}

	service := testService(mockRepo)

	if err := service.Delete(context.Background(), "patient", 12); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if deactivatedRole != "patient" || deactivatedID != 12 {
		t.Errorf("Expected deactivate patient/12, got %s/%d", deactivatedRole, deactivatedID)
	}
}

func TestDelete_AdminIsHard(t *testing.T) {
	var hardDeleted int64

	mockRepo := &mockRepository{
		hardDeleteAdminFunc: func(id int64) error {
			hardDeleted = id
			return nil
		},
		deactivateFunc: func(role string, id int64) error {
			t.Error("Admin delete must not go through soft deactivation")
			return nil
		},
	}

	service := testService(mockRepo)

	if err := service.Delete(context.Background(), "admin", 4); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if hardDeleted != 4 {
		t.Errorf("Expected hard delete of admin 4, got %d", hardDeleted)
	}
}

func TestListPatients_Pagination(t *testing.T) {
	mockRepo := &mockRepository{
		listPatientsFunc: func(limit, offset int) ([]Patient, int, error) {
			if limit != 10 || offset != 10 {
				t.Errorf("Expected limit 10 offset 10, got %d/%d", limit, offset)
			}
			return []Patient{{PatientID: 11}}, 25, nil
		},
	}

	service := testService(mockRepo)

	resp, err := service.ListPatients(context.Background(), pagination.Params{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext || !resp.Pagination.HasPrevious {
		t.Errorf("Unexpected pagination meta: %+v", resp.Pagination)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full    string
		name    string
		surname string
	}{
		{"Greg House", "Greg", "House"},
		{"Ada", "Ada", ""},
		{"Jean Claude Van Damme", "Jean", "Claude Van Damme"},
	}

	for _, tt := range tests {
		name, surname := splitName(tt.full)
		if name != tt.name || surname != tt.surname {
			t.Errorf("splitName(%q) = %q/%q, want %q/%q", tt.full, name, surname, tt.name, tt.surname)
		}
	}
}

// Mock implementations

type mockRepository struct {
	createPatientFunc     func(p *Patient) error
	getPatientByIDFunc    func(id int64) (*Patient, error)
	getPatientByEmailFunc func(email string) (*Patient, error)
	listPatientsFunc      func(limit, offset int) ([]Patient, int, error)
	updatePatientFunc     func(p *Patient) error

	createDoctorFunc        func(d *Doctor) error
	getDoctorByIDFunc       func(id int64) (*Doctor, error)
	getDoctorByUsernameFunc func(username string) (*Doctor, error)
	listDoctorsFunc         func(limit, offset int) ([]Doctor, int, error)
	updateDoctorFunc        func(d *Doctor) error

	createPharmacistFunc        func(p *Pharmacist) error
	getPharmacistByIDFunc       func(id int64) (*Pharmacist, error)
	getPharmacistByUsernameFunc func(username string) (*Pharmacist, error)
	listPharmacistsFunc         func() ([]Pharmacist, error)
	updatePharmacistFunc        func(p *Pharmacist) error

	createAdminFunc         func(a *Admin) error
	getAdminByIDFunc        func(id int64) (*Admin, error)
	getAdminByUsernameFunc  func(username string) (*Admin, error)
	listAdminsFunc          func() ([]Admin, error)
	updateAdminFunc         func(a *Admin) error
	touchAdminLastLoginFunc func(id int64) error

	deactivateFunc      func(role string, id int64) error
	hardDeleteAdminFunc func(id int64) error
}

func (m *mockRepository) CreatePatient(p *Patient) error {
	if m.createPatientFunc != nil {
		return m.createPatientFunc(p)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) GetPatientByID(id int64) (*Patient, error) {
	if m.getPatientByIDFunc != nil {
		return m.getPatientByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetPatientByEmail(email string) (*Patient, error) {
	if m.getPatientByEmailFunc != nil {
		return m.getPatientByEmailFunc(email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListPatients(limit, offset int) ([]Patient, int, error) {
	if m.listPatientsFunc != nil {
		return m.listPatientsFunc(limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) UpdatePatient(p *Patient) error {
	if m.updatePatientFunc != nil {
		return m.updatePatientFunc(p)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) CreateDoctor(d *Doctor) error {
	if m.createDoctorFunc != nil {
		return m.createDoctorFunc(d)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) GetDoctorByID(id int64) (*Doctor, error) {
	if m.getDoctorByIDFunc != nil {
		return m.getDoctorByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetDoctorByUsername(username string) (*Doctor, error) {
	if m.getDoctorByUsernameFunc != nil {
		return m.getDoctorByUsernameFunc(username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListDoctors(limit, offset int) ([]Doctor, int, error) {
	if m.listDoctorsFunc != nil {
		return m.listDoctorsFunc(limit, offset)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockRepository) UpdateDoctor(d *Doctor) error {
	if m.updateDoctorFunc != nil {
		return m.updateDoctorFunc(d)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) CreatePharmacist(p *Pharmacist) error {
	if m.createPharmacistFunc != nil {
		return m.createPharmacistFunc(p)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) GetPharmacistByID(id int64) (*Pharmacist, error) {
	if m.getPharmacistByIDFunc != nil {
		return m.getPharmacistByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetPharmacistByUsername(username string) (*Pharmacist, error) {
	if m.getPharmacistByUsernameFunc != nil {
		return m.getPharmacistByUsernameFunc(username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListPharmacists() ([]Pharmacist, error) {
	if m.listPharmacistsFunc != nil {
		return m.listPharmacistsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdatePharmacist(p *Pharmacist) error {
	if m.updatePharmacistFunc != nil {
		return m.updatePharmacistFunc(p)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) CreateAdmin(a *Admin) error {
	if m.createAdminFunc != nil {
		return m.createAdminFunc(a)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) GetAdminByID(id int64) (*Admin, error) {
	if m.getAdminByIDFunc != nil {
		return m.getAdminByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetAdminByUsername(username string) (*Admin, error) {
	if m.getAdminByUsernameFunc != nil {
		return m.getAdminByUsernameFunc(username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) ListAdmins() ([]Admin, error) {
	if m.listAdminsFunc != nil {
		return m.listAdminsFunc()
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateAdmin(a *Admin) error {
	if m.updateAdminFunc != nil {
		return m.updateAdminFunc(a)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) TouchAdminLastLogin(id int64) error {
	if m.touchAdminLastLoginFunc != nil {
		return m.touchAdminLastLoginFunc(id)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) Deactivate(role string, id int64) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(role, id)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) HardDeleteAdmin(id int64) error {
	if m.hardDeleteAdminFunc != nil {
		return m.hardDeleteAdminFunc(id)
	}
	return errors.New("not implemented")
}
