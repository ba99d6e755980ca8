package accounts

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/health-hub/records-service/internal/audit"
	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/credentials"
	"github.com/health-hub/records-service/internal/identity"
	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/pagination"
	"github.com/health-hub/records-service/internal/telemetry"
)

type Service struct {
	repo      RepositoryInterface
	creds     *credentials.Store
	issuer    *auth.Issuer
	auditor   audit.RecorderInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, creds *credentials.Store, issuer *auth.Issuer,
	auditor audit.RecorderInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		creds:     creds,
		issuer:    issuer,
		auditor:   auditor,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Login authenticates a principal and mints an access token. Every failure
// path returns ErrInvalidCredentials; the caller learns nothing about which
// part of the check failed. When no account matches the identifier, a dummy
// bcrypt comparison runs anyway so response timing does not reveal whether
// the identifier exists.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	role := auth.Role(req.Role)
	if !auth.ValidRole(role) || req.Username == "" || req.Password == "" {
		s.creds.VerifyDummy(req.Password)
		s.recordLogin(ctx, req.Role, false)
		return nil, ErrInvalidCredentials
	}

	var (
		principalID int64
		digest      string
		active      bool
		name        string
		surname     string
	)

	switch role {
	case auth.RolePatient:
		// Patients identify by email, not username.
		p, err := s.repo.GetPatientByEmail(req.Username)
		if err != nil {
			return nil, s.failLogin(ctx, req, err)
		}
		principalID, digest, active = p.PatientID, p.PasswordHash, p.IsActive
		name, surname = p.FirstName, p.LastName
	case auth.RoleDoctor:
		d, err := s.repo.GetDoctorByUsername(req.Username)
		if err != nil {
			return nil, s.failLogin(ctx, req, err)
		}
		principalID, digest, active = d.DoctorID, d.PasswordHash, d.IsActive
		name, surname = splitName(d.Name)
	case auth.RolePharmacist:
		ph, err := s.repo.GetPharmacistByUsername(req.Username)
		if err != nil {
			return nil, s.failLogin(ctx, req, err)
		}
		principalID, digest, active = ph.PharmacistID, ph.PasswordHash, ph.IsActive
		name, surname = splitName(ph.Name)
	case auth.RoleAdmin:
		a, err := s.repo.GetAdminByUsername(req.Username)
		if err != nil {
			return nil, s.failLogin(ctx, req, err)
		}
		principalID, digest, active = a.AdminID, a.PasswordHash, a.IsActive
		name, surname = splitName(a.FullName)
	}

	if !s.creds.Verify(digest, req.Password) || !active {
		s.recordLogin(ctx, req.Role, false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Mint(principalID, role)
	if err != nil {
		return nil, err
	}

	if role == auth.RoleAdmin {
		if err := s.repo.TouchAdminLastLogin(principalID); err != nil {
			log.Printf("Warning: failed to record admin last login: %v", err)
		}
	}

	s.recordLogin(ctx, req.Role, true)
	log.Printf("Successful login: role=%s id=%d", role, principalID)

	return &LoginResponse{
		AccessToken: token,
		Name:        name,
		Surname:     surname,
		Role:        string(role),
	}, nil
}

// failLogin burns a bcrypt comparison when the account lookup missed, then
// collapses the error into ErrInvalidCredentials. Unexpected repository
// errors pass through unchanged.
func (s *Service) failLogin(ctx context.Context, req LoginRequest, err error) error {
	if errors.Is(err, ErrNotFound) {
		s.creds.VerifyDummy(req.Password)
		s.recordLogin(ctx, req.Role, false)
		return ErrInvalidCredentials
	}
	return err
}

func (s *Service) recordLogin(ctx context.Context, role string, success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(ctx, role, success)
	}
}

// splitName splits a single display name into first and last parts at the
// first space. One-word names leave the surname empty.
func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// Add creates a new account of the requested role. Identity fields are
// derived here, never taken from the request: patient login_id, sex and
// date of birth come from the national identity number, staff employee IDs
// from the username.
func (s *Service) Add(ctx context.Context, req *AddUserRequest) (int64, error) {
	role := auth.Role(req.Role)
	if !auth.ValidRole(role) {
		return 0, ErrInvalidRole
	}
	if err := req.ValidateFor(role); err != nil {
		return 0, err
	}

	hash, err := s.creds.Hash(req.Password)
	if err != nil {
		return 0, err
	}

	var id int64
	var created interface{}

	switch role {
	case auth.RolePatient:
		now := time.Now()
		loginID, err := identity.LoginID(req.NationalID, now)
		if err != nil {
			return 0, err
		}
		dob, err := identity.DateOfBirth(req.NationalID)
		if err != nil {
			return 0, err
		}
		sex, err := identity.Sex(req.NationalID)
		if err != nil {
			return 0, err
		}
		p := &Patient{
			LoginID:      loginID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			NationalID:   req.NationalID,
			Sex:          sex,
			DateOfBirth:  dob,
			Address:      req.Address,
			Phone:        req.Phone,
			Email:        req.Email,
			BloodType:    req.BloodType,
			PasswordHash: hash,
		}
		if err := s.repo.CreatePatient(p); err != nil {
			return 0, err
		}
		id, created = p.PatientID, p
	case auth.RoleDoctor:
		employeeID, err := identity.EmployeeID("D", req.Username)
		if err != nil {
			return 0, err
		}
		d := &Doctor{
			EmployeeID:    employeeID,
			Username:      req.Username,
			Name:          req.Name,
			Specialty:     req.Specialty,
			LicenseNumber: req.LicenseNumber,
			Phone:         req.Phone,
			Email:         req.Email,
			PasswordHash:  hash,
		}
		if err := s.repo.CreateDoctor(d); err != nil {
			return 0, err
		}
		id, created = d.DoctorID, d
	case auth.RolePharmacist:
		employeeID, err := identity.EmployeeID("PH", req.Username)
		if err != nil {
			return 0, err
		}
		ph := &Pharmacist{
			EmployeeID:    employeeID,
			Username:      req.Username,
			Name:          req.Name,
			LicenseNumber: req.LicenseNumber,
			Phone:         req.Phone,
			Email:         req.Email,
			PasswordHash:  hash,
		}
		if err := s.repo.CreatePharmacist(ph); err != nil {
			return 0, err
		}
		id, created = ph.PharmacistID, ph
	case auth.RoleAdmin:
		a := &Admin{
			Username:     req.Username,
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := s.repo.CreateAdmin(a); err != nil {
			return 0, err
		}
		id, created = a.AdminID, a
	}

	s.recordAudit(ctx, role, id, audit.ActionInsert, nil, created)
	s.publishAccountEvent(ctx, messaging.EventAccountCreated, id, string(role), req.Email)

	return id, nil
}

// GetAccount fetches one account of the given role. The return value is
// the role-specific entity struct.
func (s *Service) GetAccount(ctx context.Context, role string, id int64) (interface{}, error) {
	switch auth.Role(role) {
	case auth.RolePatient:
		return s.repo.GetPatientByID(id)
	case auth.RoleDoctor:
		return s.repo.GetDoctorByID(id)
	case auth.RolePharmacist:
		return s.repo.GetPharmacistByID(id)
	case auth.RoleAdmin:
		return s.repo.GetAdminByID(id)
	}
	return nil, ErrInvalidRole
}

// ListAccounts returns role-tagged summaries across all four principal
// tables.
func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	var summaries []AccountSummary

	patients, _, err := s.repo.ListPatients(pagination.MaxLimit, 0)
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		summaries = append(summaries, AccountSummary{
			ID:       p.PatientID,
			Role:     string(auth.RolePatient),
			Name:     p.FirstName + " " + p.LastName,
			Email:    p.Email,
			IsActive: p.IsActive,
		})
	}

	doctors, _, err := s.repo.ListDoctors(pagination.MaxLimit, 0)
	if err != nil {
		return nil, err
	}
	for _, d := range doctors {
		summaries = append(summaries, AccountSummary{
			ID:       d.DoctorID,
			Role:     string(auth.RoleDoctor),
			Name:     d.Name,
			Email:    d.Email,
			IsActive: d.IsActive,
		})
	}

	pharmacists, err := s.repo.ListPharmacists()
	if err != nil {
		return nil, err
	}
	for _, ph := range pharmacists {
		summaries = append(summaries, AccountSummary{
			ID:       ph.PharmacistID,
			Role:     string(auth.RolePharmacist),
			Name:     ph.Name,
			Email:    ph.Email,
			IsActive: ph.IsActive,
		})
	}

	admins, err := s.repo.ListAdmins()
	if err != nil {
		return nil, err
	}
	for _, a := range admins {
		summaries = append(summaries, AccountSummary{
			ID:       a.AdminID,
			Role:     string(auth.RoleAdmin),
			Name:     a.FullName,
			Email:    a.Email,
			IsActive: a.IsActive,
		})
	}

	return summaries, nil
}

// ListPatients returns one page of active patients.
func (s *Service) ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientsResponse, error) {
	params.Validate()

	patients, total, err := s.repo.ListPatients(params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []Patient{}
	}

	return &PaginatedPatientsResponse{
		Patients:   patients,
		Pagination: params.CalculateMeta(total),
	}, nil
}

// ListDoctors returns one page of active doctors.
func (s *Service) ListDoctors(ctx context.Context, params pagination.Params) (*PaginatedDoctorsResponse, error) {
	params.Validate()

	doctors, total, err := s.repo.ListDoctors(params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, err
	}
	if doctors == nil {
		doctors = []Doctor{}
	}

	return &PaginatedDoctorsResponse{
		Doctors:    doctors,
		Pagination: params.CalculateMeta(total),
	}, nil
}

// Update applies an allow-listed partial update to one account. Only fields
// named in UpdateUserRequest can change; activation flags, password hashes
// and identity-derived columns are not reachable here.
func (s *Service) Update(ctx context.Context, role string, id int64, req *UpdateUserRequest) error {
	switch auth.Role(role) {
	case auth.RolePatient:
		return s.updatePatient(ctx, id, req)
	case auth.RoleDoctor:
		return s.updateDoctor(ctx, id, req)
	case auth.RolePharmacist:
		return s.updatePharmacist(ctx, id, req)
	case auth.RoleAdmin:
		return s.updateAdmin(ctx, id, req)
	}
	return ErrInvalidRole
}

func (s *Service) updatePatient(ctx context.Context, id int64, req *UpdateUserRequest) error {
	p, err := s.repo.GetPatientByID(id)
	if err != nil {
		return err
	}
	old := *p

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.BloodType != nil {
		p.BloodType = *req.BloodType
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}

	if err := s.repo.UpdatePatient(p); err != nil {
		return err
	}

	s.recordAudit(ctx, auth.RolePatient, id, audit.ActionUpdate, old, p)
	s.publishAccountEvent(ctx, messaging.EventAccountUpdated, id, string(auth.RolePatient), p.Email)
	return nil
}

func (s *Service) updateDoctor(ctx context.Context, id int64, req *UpdateUserRequest) error {
	d, err := s.repo.GetDoctorByID(id)
	if err != nil {
		return err
	}
	old := *d

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Specialty != nil {
		d.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		d.Phone = *req.Phone
	}
	if req.Email != nil {
		d.Email = *req.Email
	}

	if err := s.repo.UpdateDoctor(d); err != nil {
		return err
	}

	s.recordAudit(ctx, auth.RoleDoctor, id, audit.ActionUpdate, old, d)
	s.publishAccountEvent(ctx, messaging.EventAccountUpdated, id, string(auth.RoleDoctor), d.Email)
	return nil
}

func (s *Service) updatePharmacist(ctx context.Context, id int64, req *UpdateUserRequest) error {
	ph, err := s.repo.GetPharmacistByID(id)
	if err != nil {
		return err
	}
	old := *ph

	if req.Name != nil {
		ph.Name = *req.Name
	}
	if req.Phone != nil {
		ph.Phone = *req.Phone
	}
	if req.Email != nil {
		ph.Email = *req.Email
	}

	if err := s.repo.UpdatePharmacist(ph); err != nil {
		return err
	}

	s.recordAudit(ctx, auth.RolePharmacist, id, audit.ActionUpdate, old, ph)
	s.publishAccountEvent(ctx, messaging.EventAccountUpdated, id, string(auth.RolePharmacist), ph.Email)
	return nil
}

func (s *Service) updateAdmin(ctx context.Context, id int64, req *UpdateUserRequest) error {
	a, err := s.repo.GetAdminByID(id)
	if err != nil {
		return err
	}
	old := *a

	if req.FullName != nil {
		a.FullName = *req.FullName
	}
	if req.Email != nil {
		a.Email = *req.Email
	}

	if err := s.repo.UpdateAdmin(a); err != nil {
		return err
	}

	s.recordAudit(ctx, auth.RoleAdmin, id, audit.ActionUpdate, old, a)
	s.publishAccountEvent(ctx, messaging.EventAccountUpdated, id, string(auth.RoleAdmin), a.Email)
	return nil
}

// Delete removes an account. Patient, doctor and pharmacist rows are soft
// deleted (is_active cleared) so clinical history keeps valid references;
// admin rows carry no clinical references and are removed outright.
func (s *Service) Delete(ctx context.Context, role string, id int64) error {
	r := auth.Role(role)
	if !auth.ValidRole(r) {
		return ErrInvalidRole
	}

	if r == auth.RoleAdmin {
		if err := s.repo.HardDeleteAdmin(id); err != nil {
			return err
		}
		s.recordAudit(ctx, r, id, audit.ActionDelete, nil, nil)
		s.publishAccountEvent(ctx, messaging.EventAccountDeleted, id, role, "")
		return nil
	}

	if err := s.repo.Deactivate(role, id); err != nil {
		return err
	}
	s.recordAudit(ctx, r, id, audit.ActionUpdate, nil, map[string]bool{"is_active": false})
	s.publishAccountEvent(ctx, messaging.EventAccountDeactivated, id, role, "")
	return nil
}

func (s *Service) recordAudit(ctx context.Context, role auth.Role, id int64, action string, old, new interface{}) {
	if s.auditor == nil {
		return
	}

	var changedBy int64
	if pr, ok := auth.FromContext(ctx); ok {
		changedBy = pr.ID
	}

	rt, ok := roleTables[string(role)]
	if !ok {
		return
	}

	if err := s.auditor.Record(ctx, audit.Entry{
		TableName: rt.table,
		RecordID:  id,
		Action:    action,
		OldValues: old,
		NewValues: new,
		ChangedBy: changedBy,
	}); err != nil {
		log.Printf("Warning: failed to record audit entry for %s %d: %v", rt.table, id, err)
	}
}

func (s *Service) publishAccountEvent(ctx context.Context, eventType string, id int64, role, email string) {
	if s.publisher == nil {
		return
	}

	event := messaging.AccountEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.AccountEventData{
			AccountID:  id,
			Role:       role,
			Email:      email,
			OccurredAt: time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
