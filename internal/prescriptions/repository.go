package prescriptions

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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *Repository) Create(p *Prescription) error {
	p.DatePrescribed = time.Now()

	query := `
		INSERT INTO prescription (pres_code, patient_id, doctor_id, medication, dosage,
			instructions, date_prescribed, refills_remaining, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING prescription_id
	`

	err := r.db.QueryRow(query,
		p.PresCode,
		p.PatientID,
		p.DoctorID,
		p.Medication,
		p.Dosage,
		p.Instructions,
		p.DatePrescribed,
		p.RefillsRemaining,
		p.Status,
	).Scan(&p.PrescriptionID)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}

	log.Printf("Created prescription %s for patient %d: %s", p.PresCode, p.PatientID, p.Medication)
	return nil
}

const prescriptionColumns = `prescription_id, pres_code, patient_id, doctor_id, pharmacist_id,
	medication, dosage, instructions, date_prescribed, date_filled, refills_remaining, status`

func scanPrescription(row interface{ Scan(...interface{}) error }) (*Prescription, error) {
	p := &Prescription{}
	var doctorID, pharmacistID sql.NullInt64
	var dosage, instructions sql.NullString
	var dateFilled sql.NullTime

	err := row.Scan(
		&p.PrescriptionID,
		&p.PresCode,
		&p.PatientID,
		&doctorID,
		&pharmacistID,
		&p.Medication,
		&dosage,
		&instructions,
		&p.DatePrescribed,
		&dateFilled,
		&p.RefillsRemaining,
		&p.Status,
	)
	if err != nil {
		return nil, err
	}

	if doctorID.Valid {
		p.DoctorID = doctorID.Int64
	}
	if pharmacistID.Valid {
		p.PharmacistID = &pharmacistID.Int64
	}
	if dosage.Valid {
		p.Dosage = dosage.String
	}
	if instructions.Valid {
		p.Instructions = instructions.String
	}
	if dateFilled.Valid {
		p.DateFilled = &dateFilled.Time
	}

	return p, nil
}

func (r *Repository) GetByID(id int64) (*Prescription, error) {
	query := fmt.Sprintf(`SELECT %s FROM prescription WHERE prescription_id = $1`, prescriptionColumns)

	p, err := scanPrescription(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return p, nil
}

// Issue fills a Pending prescription in one transaction: lock the
// prescription row, decrement the medication stock conditionally, then mark
// the prescription Filled. The conditional stock update is what keeps
// in_stock from going negative under concurrent fills: of two transactions
// racing for the last unit, exactly one sees in_stock >= 1.
func (r *Repository) Issue(id, pharmacistID int64) (*Prescription, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM prescription WHERE prescription_id = $1 FOR UPDATE`, prescriptionColumns)

	p, err := scanPrescription(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	if p.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	var medicationID int64
	err = tx.QueryRow(`SELECT medication_id FROM medication WHERE name = $1`, p.Medication).Scan(&medicationID)
	if err == sql.ErrNoRows {
		return nil, ErrMedicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up medication: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE medication SET in_stock = in_stock - 1 WHERE medication_id = $1 AND in_stock >= 1`,
		medicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrInsufficientStock
	}

	now := time.Now()
	_, err = tx.Exec(
		`UPDATE prescription SET pharmacist_id = $1, date_filled = $2, status = $3 WHERE prescription_id = $4`,
		pharmacistID, now, StatusFilled, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fill prescription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fill transaction: %w", err)
	}

	p.PharmacistID = &pharmacistID
	p.DateFilled = &now
	p.Status = StatusFilled

	log.Printf("Prescription %d filled by pharmacist %d", id, pharmacistID)
	return p, nil
}

// UpdateStatus moves a prescription between statuses conditionally on its
// current one.
func (r *Repository) UpdateStatus(id int64, from, to string) error {
	result, err := r.db.Exec(
		`UPDATE prescription SET status = $1 WHERE prescription_id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrInvalidTransition
	}

	log.Printf("Prescription %d: %s -> %s", id, from, to)
	return nil
}

func (r *Repository) ListByPatient(patientID int64) ([]Prescription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prescription
		WHERE patient_id = $1
		ORDER BY date_prescribed DESC
	`, prescriptionColumns)

	return r.list(query, patientID)
}

func (r *Repository) ListByDoctor(doctorID int64) ([]Prescription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prescription
		WHERE doctor_id = $1
		ORDER BY date_prescribed DESC
	`, prescriptionColumns)

	return r.list(query, doctorID)
}

func (r *Repository) ListAll() ([]Prescription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prescription
		ORDER BY date_prescribed DESC
	`, prescriptionColumns)

	return r.list(query)
}

// ListForPharmacist returns the pharmacist's work queue: every Pending
// prescription plus the ones this pharmacist has filled.
func (r *Repository) ListForPharmacist(pharmacistID int64) ([]Prescription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM prescription
		WHERE status = $1 OR pharmacist_id = $2
		ORDER BY date_prescribed DESC
	`, prescriptionColumns)

	return r.list(query, StatusPending, pharmacistID)
}

func (r *Repository) list(query string, args ...interface{}) ([]Prescription, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prescription: %w", err)
		}
		prescriptions = append(prescriptions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prescriptions: %w", err)
	}

	return prescriptions, nil
}

// ExpirePending marks Pending prescriptions older than cutoff as Expired
// and returns how many were swept.
func (r *Repository) ExpirePending(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE prescription SET status = $1 WHERE status = $2 AND date_prescribed < $3`,
		StatusExpired, StatusPending, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire prescriptions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// ---- Medications ----

func (r *Repository) CreateMedication(m *Medication) error {
	query := `
		INSERT INTO medication (name, ingredients, in_stock)
		VALUES ($1, $2, $3)
		RETURNING medication_id
	`

	err := r.db.QueryRow(query, m.Name, m.Ingredients, m.InStock).Scan(&m.MedicationID)
	if isUniqueViolation(err) {
		return ErrDuplicateMedication
	}
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}

	log.Printf("Added medication '%s' (stock: %d)", m.Name, m.InStock)
	return nil
}

func (r *Repository) ListMedications() ([]Medication, error) {
	rows, err := r.db.Query(`SELECT medication_id, name, ingredients, in_stock FROM medication ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var medications []Medication
	for rows.Next() {
		m := Medication{}
		var ingredients sql.NullString

		if err := rows.Scan(&m.MedicationID, &m.Name, &ingredients, &m.InStock); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		if ingredients.Valid {
			m.Ingredients = ingredients.String
		}

		medications = append(medications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return medications, nil
}
