package records

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreatePair inserts a treatment and the record documenting it in one
// transaction. Either both rows land or neither does; a record must never
// reference a treatment that was not committed.
func (r *Repository) CreatePair(treatment *Treatment, record *Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO patient_treatment (patient_id, doctor_id, treatment_date, description, diagnosis, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING treat_id
	`,
		treatment.PatientID,
		treatment.DoctorID,
		treatment.TreatmentDate,
		treatment.Description,
		treatment.Diagnosis,
		treatment.FollowUpDate,
	).Scan(&treatment.TreatID)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO patient_record (patient_id, treat_id, record_type, description, details, date_of_event, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING record_id
	`,
		record.PatientID,
		treatment.TreatID,
		record.RecordType,
		record.Description,
		record.Details,
		record.DateOfEvent,
		record.RecordedBy,
	).Scan(&record.RecordID)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit record transaction: %w", err)
	}

	record.TreatID = &treatment.TreatID
	log.Printf("Created record %d with treatment %d for patient %d",
		record.RecordID, treatment.TreatID, record.PatientID)
	return nil
}

// ListByPatient returns a patient's records newest first, each with its
// treatment joined in when one exists.
func (r *Repository) ListByPatient(patientID int64) ([]View, error) {
	query := `
		SELECT r.record_id, r.patient_id, r.treat_id, r.record_type, r.description,
			r.details, r.date_of_event, r.recorded_by,
			t.treat_id, t.patient_id, t.doctor_id, t.treatment_date, t.description,
			t.diagnosis, t.follow_up_date
		FROM patient_record r
		LEFT JOIN patient_treatment t ON t.treat_id = r.treat_id
		WHERE r.patient_id = $1
		ORDER BY r.date_of_event DESC
	`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient records: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		v := View{}
		var details sql.NullString
		var treatID sql.NullInt64

		var tTreatID, tPatientID, tDoctorID sql.NullInt64
		var tDate, tFollowUp sql.NullTime
		var tDescription, tDiagnosis sql.NullString

		err := rows.Scan(
			&v.RecordID, &v.PatientID, &treatID, &v.RecordType, &v.Description,
			&details, &v.DateOfEvent, &v.RecordedBy,
			&tTreatID, &tPatientID, &tDoctorID, &tDate, &tDescription,
			&tDiagnosis, &tFollowUp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		if details.Valid {
			v.Details = details.String
		}
		if treatID.Valid {
			v.TreatID = &treatID.Int64
		}

		if tTreatID.Valid {
			treatment := &Treatment{
				TreatID:   tTreatID.Int64,
				PatientID: tPatientID.Int64,
			}
			if tDoctorID.Valid {
				treatment.DoctorID = tDoctorID.Int64
			}
			if tDate.Valid {
				treatment.TreatmentDate = tDate.Time
			}
			if tDescription.Valid {
				treatment.Description = tDescription.String
			}
			if tDiagnosis.Valid {
				treatment.Diagnosis = tDiagnosis.String
			}
			if tFollowUp.Valid {
				treatment.FollowUpDate = &tFollowUp.Time
			}
			v.Treatment = treatment
		}

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return views, nil
}

// CreateAllergy inserts one allergy row. The (patient_id, allergy) unique
// constraint maps to ErrDuplicateAllergy.
func (r *Repository) CreateAllergy(a *Allergy) error {
	query := `
		INSERT INTO patient_allergy (patient_id, allergy, severity, reaction, first_identified, last_occurrence, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING allergy_id
	`

	err := r.db.QueryRow(query,
		a.PatientID,
		a.Allergy,
		a.Severity,
		a.Reaction,
		a.FirstIdentified,
		a.LastOccurrence,
		a.Notes,
	).Scan(&a.AllergyID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateAllergy
	}
	if err != nil {
		return fmt.Errorf("failed to create allergy: %w", err)
	}

	log.Printf("Recorded allergy '%s' for patient %d", a.Allergy, a.PatientID)
	return nil
}

// ListAllergies returns a patient's allergies.
func (r *Repository) ListAllergies(patientID int64) ([]Allergy, error) {
	query := `
		SELECT allergy_id, patient_id, allergy, severity, reaction, first_identified, last_occurrence, notes
		FROM patient_allergy
		WHERE patient_id = $1
		ORDER BY allergy
	`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	defer rows.Close()

	var allergies []Allergy
	for rows.Next() {
		a := Allergy{}
		var reaction, notes sql.NullString
		var firstIdentified, lastOccurrence sql.NullTime

		err := rows.Scan(
			&a.AllergyID, &a.PatientID, &a.Allergy, &a.Severity,
			&reaction, &firstIdentified, &lastOccurrence, &notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allergy: %w", err)
		}

		if reaction.Valid {
			a.Reaction = reaction.String
		}
		if notes.Valid {
			a.Notes = notes.String
		}
		if firstIdentified.Valid {
			a.FirstIdentified = &firstIdentified.Time
		}
		if lastOccurrence.Valid {
			a.LastOccurrence = &lastOccurrence.Time
		}

		allergies = append(allergies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allergies: %w", err)
	}

	return allergies, nil
}
