package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// ---- Patients ----

func (r *Repository) CreatePatient(p *Patient) error {
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO patient (login_id, fname, lname, national_id_number, sex, date_of_birth,
			address, phone, email, blood_type, password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING patient_id
	`

	err := r.db.QueryRow(query,
		p.LoginID,
		p.FirstName,
		p.LastName,
		p.NationalID,
		p.Sex,
		p.DateOfBirth,
		p.Address,
		p.Phone,
		p.Email,
		p.BloodType,
		p.PasswordHash,
		true,
		p.CreatedAt,
	).Scan(&p.PatientID)

	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	p.IsActive = true
	log.Printf("Created patient account: %s (login_id: %s)", p.Email, p.LoginID)
	return nil
}

const patientColumns = `patient_id, login_id, fname, lname, national_id_number, sex, date_of_birth,
	address, phone, email, blood_type, password, is_active, created_at, updated_at`

func scanPatient(row interface{ Scan(...interface{}) error }) (*Patient, error) {
	p := &Patient{}
	var address, phone, bloodType sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&p.PatientID,
		&p.LoginID,
		&p.FirstName,
		&p.LastName,
		&p.NationalID,
		&p.Sex,
		&p.DateOfBirth,
		&address,
		&phone,
		&p.Email,
		&bloodType,
		&p.PasswordHash,
		&p.IsActive,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if address.Valid {
		p.Address = address.String
	}
	if phone.Valid {
		p.Phone = phone.String
	}
	if bloodType.Valid {
		p.BloodType = bloodType.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}

	return p, nil
}

func (r *Repository) GetPatientByID(id int64) (*Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patient WHERE patient_id = $1`, patientColumns)

	p, err := scanPatient(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPatientByEmail(email string) (*Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patient WHERE email = $1`, patientColumns)

	p, err := scanPatient(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (r *Repository) ListPatients(limit, offset int) ([]Patient, int, error) {
	var totalCount int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM patient WHERE is_active = TRUE`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM patient
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, patientColumns)

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, totalCount, nil
}

func (r *Repository) UpdatePatient(p *Patient) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE patient
		SET fname = $1, lname = $2, address = $3, phone = $4, email = $5, blood_type = $6, updated_at = $7
		WHERE patient_id = $8
	`

	result, err := r.db.Exec(query,
		p.FirstName, p.LastName, p.Address, p.Phone, p.Email, p.BloodType, p.UpdatedAt, p.PatientID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return requireRow(result, "patient")
}

// ---- Doctors ----

func (r *Repository) CreateDoctor(d *Doctor) error {
	d.CreatedAt = time.Now()

	query := `
		INSERT INTO doctor (employee_id, username, password, name, specialty, license_number,
			phone, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING doctor_id
	`

	err := r.db.QueryRow(query,
		d.EmployeeID,
		d.Username,
		d.PasswordHash,
		d.Name,
		d.Specialty,
		d.LicenseNumber,
		d.Phone,
		d.Email,
		true,
		d.CreatedAt,
	).Scan(&d.DoctorID)

	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	d.IsActive = true
	log.Printf("Created doctor account: %s (employee_id: %s)", d.Username, d.EmployeeID)
	return nil
}

const doctorColumns = `doctor_id, employee_id, username, password, name, specialty, license_number,
	phone, email, is_active, created_at`

func scanDoctor(row interface{ Scan(...interface{}) error }) (*Doctor, error) {
	d := &Doctor{}
	var specialty, phone sql.NullString

	err := row.Scan(
		&d.DoctorID,
		&d.EmployeeID,
		&d.Username,
		&d.PasswordHash,
		&d.Name,
		&specialty,
		&d.LicenseNumber,
		&phone,
		&d.Email,
		&d.IsActive,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if specialty.Valid {
		d.Specialty = specialty.String
	}
	if phone.Valid {
		d.Phone = phone.String
	}

	return d, nil
}

func (r *Repository) GetDoctorByID(id int64) (*Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctor WHERE doctor_id = $1`, doctorColumns)

	d, err := scanDoctor(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return d, nil
}

func (r *Repository) GetDoctorByUsername(username string) (*Doctor, error) {
	query := fmt.Sprintf(`SELECT %s FROM doctor WHERE username = $1`, doctorColumns)

	d, err := scanDoctor(r.db.QueryRow(query, username))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDoctors(limit, offset int) ([]Doctor, int, error) {
	var totalCount int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM doctor WHERE is_active = TRUE`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM doctor
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, doctorColumns)

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, totalCount, nil
}

func (r *Repository) UpdateDoctor(d *Doctor) error {
	query := `
		UPDATE doctor
		SET name = $1, specialty = $2, phone = $3, email = $4
		WHERE doctor_id = $5
	`

	result, err := r.db.Exec(query, d.Name, d.Specialty, d.Phone, d.Email, d.DoctorID)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return requireRow(result, "doctor")
}

// ---- Pharmacists ----

func (r *Repository) CreatePharmacist(p *Pharmacist) error {
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO pharmacist (employee_id, username, password, name, license_number,
			phone, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING pharmacist_id
	`

	err := r.db.QueryRow(query,
		p.EmployeeID,
		p.Username,
		p.PasswordHash,
		p.Name,
		p.LicenseNumber,
		p.Phone,
		p.Email,
		true,
		p.CreatedAt,
	).Scan(&p.PharmacistID)

	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create pharmacist: %w", err)
	}

	p.IsActive = true
	log.Printf("Created pharmacist account: %s (employee_id: %s)", p.Username, p.EmployeeID)
	return nil
}

const pharmacistColumns = `pharmacist_id, employee_id, username, password, name, license_number,
	phone, email, is_active, created_at`

func scanPharmacist(row interface{ Scan(...interface{}) error }) (*Pharmacist, error) {
	p := &Pharmacist{}
	var phone sql.NullString

	err := row.Scan(
		&p.PharmacistID,
		&p.EmployeeID,
		&p.Username,
		&p.PasswordHash,
		&p.Name,
		&p.LicenseNumber,
		&phone,
		&p.Email,
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		p.Phone = phone.String
	}

	return p, nil
}

func (r *Repository) GetPharmacistByID(id int64) (*Pharmacist, error) {
	query := fmt.Sprintf(`SELECT %s FROM pharmacist WHERE pharmacist_id = $1`, pharmacistColumns)

	p, err := scanPharmacist(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacist: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPharmacistByUsername(username string) (*Pharmacist, error) {
	query := fmt.Sprintf(`SELECT %s FROM pharmacist WHERE username = $1`, pharmacistColumns)

	p, err := scanPharmacist(r.db.QueryRow(query, username))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacist: %w", err)
	}
	return p, nil
}

func (r *Repository) ListPharmacists() ([]Pharmacist, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pharmacist
		WHERE is_active = TRUE
		ORDER BY created_at DESC
	`, pharmacistColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pharmacists: %w", err)
	}
	defer rows.Close()

	var pharmacists []Pharmacist
	for rows.Next() {
		p, err := scanPharmacist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pharmacist: %w", err)
		}
		pharmacists = append(pharmacists, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pharmacists: %w", err)
	}

	return pharmacists, nil
}

func (r *Repository) UpdatePharmacist(p *Pharmacist) error {
	query := `
		UPDATE pharmacist
		SET name = $1, phone = $2, email = $3
		WHERE pharmacist_id = $4
	`

	result, err := r.db.Exec(query, p.Name, p.Phone, p.Email, p.PharmacistID)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to update pharmacist: %w", err)
	}
	return requireRow(result, "pharmacist")
}

// ---- Admins ----

func (r *Repository) CreateAdmin(a *Admin) error {
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO admin (username, password, fullname, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING admin_id
	`

	err := r.db.QueryRow(query,
		a.Username,
		a.PasswordHash,
		a.FullName,
		a.Email,
		true,
		a.CreatedAt,
	).Scan(&a.AdminID)

	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	a.IsActive = true
	log.Printf("Created admin account: %s", a.Username)
	return nil
}

const adminColumns = `admin_id, username, password, fullname, email, is_active, last_login, created_at`

func scanAdmin(row interface{ Scan(...interface{}) error }) (*Admin, error) {
	a := &Admin{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&a.AdminID,
		&a.Username,
		&a.PasswordHash,
		&a.FullName,
		&a.Email,
		&a.IsActive,
		&lastLogin,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}

	return a, nil
}

func (r *Repository) GetAdminByID(id int64) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin WHERE admin_id = $1`, adminColumns)

	a, err := scanAdmin(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

func (r *Repository) GetAdminByUsername(username string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin WHERE username = $1`, adminColumns)

	a, err := scanAdmin(r.db.QueryRow(query, username))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

func (r *Repository) ListAdmins() ([]Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin ORDER BY created_at DESC`, adminColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}

	return admins, nil
}

func (r *Repository) UpdateAdmin(a *Admin) error {
	query := `
		UPDATE admin
		SET fullname = $1, email = $2
		WHERE admin_id = $3
	`

	result, err := r.db.Exec(query, a.FullName, a.Email, a.AdminID)
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}
	return requireRow(result, "admin")
}

// TouchAdminLastLogin records a successful admin login.
func (r *Repository) TouchAdminLastLogin(id int64) error {
	_, err := r.db.Exec(`UPDATE admin SET last_login = $1 WHERE admin_id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ---- Deactivation / deletion ----

// roleTables maps a role to its table and primary-key column. Only these
// four tables are reachable; the role is never interpolated from user input
// without passing through this map.
var roleTables = map[string]struct {
	table string
	pk    string
}{
	"patient":    {"patient", "patient_id"},
	"doctor":     {"doctor", "doctor_id"},
	"pharmacist": {"pharmacist", "pharmacist_id"},
	"admin":      {"admin", "admin_id"},
}

// Deactivate soft-deletes an account by clearing is_active.
func (r *Repository) Deactivate(role string, id int64) error {
	rt, ok := roleTables[role]
	if !ok {
		return ErrInvalidRole
	}

	query := fmt.Sprintf(`UPDATE %s SET is_active = FALSE WHERE %s = $1 AND is_active = TRUE`, rt.table, rt.pk)

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s: %w", role, err)
	}
	return requireRow(result, role)
}

// HardDeleteAdmin permanently removes an admin row. Admin is the only
// principal kind that supports hard deletion.
func (r *Repository) HardDeleteAdmin(id int64) error {
	result, err := r.db.Exec(`DELETE FROM admin WHERE admin_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	return requireRow(result, "admin")
}

func requireRow(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	log.Printf("Updated %s record", entity)
	return nil
}
