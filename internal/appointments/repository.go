package appointments

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(a *Appointment) error {
	a.CreatedAt = time.Now()

	query := `
		INSERT INTO appointment (patient_id, doctor_id, start_time, end_time, status,
			appointment_type, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING appointment_id
	`

	err := r.db.QueryRow(query,
		a.PatientID,
		a.DoctorID,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.AppointmentType,
		a.Notes,
		a.CreatedAt,
	).Scan(&a.AppointmentID)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	log.Printf("Created appointment %d: patient=%d doctor=%d start=%s",
		a.AppointmentID, a.PatientID, a.DoctorID, a.StartTime.Format(time.RFC3339))
	return nil
}

const appointmentColumns = `appointment_id, patient_id, doctor_id, start_time, end_time, status,
	appointment_type, notes, created_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (*Appointment, error) {
	a := &Appointment{}
	var appointmentType, notes sql.NullString

	err := row.Scan(
		&a.AppointmentID,
		&a.PatientID,
		&a.DoctorID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&appointmentType,
		&notes,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appointmentType.Valid {
		a.AppointmentType = appointmentType.String
	}
	if notes.Valid {
		a.Notes = notes.String
	}

	return a, nil
}

func (r *Repository) GetByID(id int64) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointment WHERE appointment_id = $1`, appointmentColumns)

	a, err := scanAppointment(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

// UpdateStatus moves an appointment from one status to another. The update
// is conditional on the current status so a concurrent transition cannot be
// overwritten; zero rows affected means the appointment already left the
// expected state.
func (r *Repository) UpdateStatus(id int64, from, to string) error {
	result, err := r.db.Exec(
		`UPDATE appointment SET status = $1 WHERE appointment_id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrInvalidTransition
	}

	log.Printf("Appointment %d: %s -> %s", id, from, to)
	return nil
}

const prefixedAppointmentColumns = `a.appointment_id, a.patient_id, a.doctor_id, a.start_time,
	a.end_time, a.status, a.appointment_type, a.notes, a.created_at`

func (r *Repository) ListByPatient(patientID int64) ([]View, error) {
	query := fmt.Sprintf(`
		SELECT %s, d.name AS doctor_name
		FROM appointment a
		JOIN doctor d ON d.doctor_id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.start_time DESC
	`, prefixedAppointmentColumns)

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		v := View{}
		var appointmentType, notes sql.NullString

		err := rows.Scan(
			&v.AppointmentID, &v.PatientID, &v.DoctorID, &v.StartTime, &v.EndTime,
			&v.Status, &appointmentType, &notes, &v.CreatedAt, &v.DoctorName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if appointmentType.Valid {
			v.AppointmentType = appointmentType.String
		}
		if notes.Valid {
			v.Notes = notes.String
		}

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return views, nil
}

func (r *Repository) ListByDoctor(doctorID int64) ([]View, error) {
	query := fmt.Sprintf(`
		SELECT %s, p.fname || ' ' || p.lname AS patient_name
		FROM appointment a
		JOIN patient p ON p.patient_id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.start_time DESC
	`, prefixedAppointmentColumns)

	rows, err := r.db.Query(query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		v := View{}
		var appointmentType, notes sql.NullString

		err := rows.Scan(
			&v.AppointmentID, &v.PatientID, &v.DoctorID, &v.StartTime, &v.EndTime,
			&v.Status, &appointmentType, &notes, &v.CreatedAt, &v.PatientName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if appointmentType.Valid {
			v.AppointmentType = appointmentType.String
		}
		if notes.Valid {
			v.Notes = notes.String
		}

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return views, nil
}

func (r *Repository) ListAll() ([]View, error) {
	query := fmt.Sprintf(`
		SELECT %s, d.name AS doctor_name, p.fname || ' ' || p.lname AS patient_name
		FROM appointment a
		JOIN doctor d ON d.doctor_id = a.doctor_id
		JOIN patient p ON p.patient_id = a.patient_id
		ORDER BY a.start_time DESC
	`, prefixedAppointmentColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		v := View{}
		var appointmentType, notes sql.NullString

		err := rows.Scan(
			&v.AppointmentID, &v.PatientID, &v.DoctorID, &v.StartTime, &v.EndTime,
			&v.Status, &appointmentType, &notes, &v.CreatedAt, &v.DoctorName, &v.PatientName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		if appointmentType.Valid {
			v.AppointmentType = appointmentType.String
		}
		if notes.Valid {
			v.Notes = notes.String
		}

		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointments: %w", err)
	}

	return views, nil
}
