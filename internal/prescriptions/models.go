package prescriptions

import "time"

// Prescription statuses. Pending is the only state with outgoing
// transitions in the fulfilment workflow.
const (
	StatusPending   = "Pending"
	StatusFilled    = "Filled"
	StatusCancelled = "Cancelled"
	StatusExpired   = "Expired"
)

type Prescription struct {
	PrescriptionID   int64      `json:"prescription_id"`
	PresCode         string     `json:"pres_code"`
	PatientID        int64      `json:"patient_id"`
	DoctorID         int64      `json:"doctor_id,omitempty"`
	PharmacistID     *int64     `json:"pharmacist_id,omitempty"`
	Medication       string     `json:"medication"`
	Dosage           string     `json:"dosage,omitempty"`
	Instructions     string     `json:"instructions,omitempty"`
	DatePrescribed   time.Time  `json:"date_prescribed"`
	DateFilled       *time.Time `json:"date_filled,omitempty"`
	RefillsRemaining int        `json:"refills_remaining"`
	Status           string     `json:"status"`
}

type Medication struct {
	MedicationID int64  `json:"medication_id"`
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients,omitempty"`
	InStock      int    `json:"in_stock"`
}

// CreateRequest is the body a doctor submits to write a prescription.
type CreateRequest struct {
	PatientID        int64  `json:"patient_id"`
	Medication       string `json:"medication"`
	Dosage           string `json:"dosage,omitempty"`
	Instructions     string `json:"instructions,omitempty"`
	RefillsRemaining int    `json:"refills_remaining,omitempty"`
}

// AddMedicationRequest is the medication variant of POST /api/add_data.
type AddMedicationRequest struct {
	Name        string `json:"name"`
	Ingredients string `json:"ingredients,omitempty"`
	InStock     int    `json:"in_stock"`
}
