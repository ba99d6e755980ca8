package records

import "time"

// Record types accepted by the patient_record check constraint.
const (
	TypeExamination = "Examination"
	TypeLabResult   = "Lab Result"
	TypeImaging     = "Imaging"
	TypeNote        = "Note"
	TypeProcedure   = "Procedure"
)

// ValidRecordType reports whether t is one of the enumerated record types.
func ValidRecordType(t string) bool {
	switch t {
	case TypeExamination, TypeLabResult, TypeImaging, TypeNote, TypeProcedure:
		return true
	}
	return false
}

// Allergy severities accepted by the patient_allergy check constraint.
const (
	SeverityMild     = "Mild"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
	SeverityUnknown  = "Unknown"
)

// ValidSeverity reports whether s is one of the enumerated severities.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityUnknown:
		return true
	}
	return false
}

// Treatment is one course of treatment, created atomically with the record
// that documents it.
type Treatment struct {
	TreatID       int64      `json:"treat_id"`
	PatientID     int64      `json:"patient_id"`
	DoctorID      int64      `json:"doctor_id,omitempty"`
	TreatmentDate time.Time  `json:"treatment_date"`
	Description   string     `json:"description"`
	Diagnosis     string     `json:"diagnosis,omitempty"`
	FollowUpDate  *time.Time `json:"follow_up_date,omitempty"`
}

// Record is one clinical record. TreatID is nullable: the storage model
// supports standalone records even though the creation path always writes
// a treatment/record pair.
type Record struct {
	RecordID    int64     `json:"record_id"`
	PatientID   int64     `json:"patient_id"`
	TreatID     *int64    `json:"treat_id,omitempty"`
	RecordType  string    `json:"record_type"`
	Description string    `json:"description"`
	Details     string    `json:"details,omitempty"`
	DateOfEvent time.Time `json:"date_of_event"`
	RecordedBy  int64     `json:"recorded_by"`
}

// View is a record with its treatment, if any, joined in.
type View struct {
	Record
	Treatment *Treatment `json:"treatment,omitempty"`
}

// Allergy is one recorded allergy; (patient_id, allergy) is unique.
type Allergy struct {
	AllergyID       int64      `json:"allergy_id"`
	PatientID       int64      `json:"patient_id"`
	Allergy         string     `json:"allergy"`
	Severity        string     `json:"severity"`
	Reaction        string     `json:"reaction,omitempty"`
	FirstIdentified *time.Time `json:"first_identified,omitempty"`
	LastOccurrence  *time.Time `json:"last_occurrence,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// TreatmentPayload is the nested treatment part of a create-record request.
type TreatmentPayload struct {
	Description  string `json:"description"`
	Diagnosis    string `json:"diagnosis,omitempty"`
	Date         string `json:"treatment_date,omitempty"`
	FollowUpDate string `json:"follow_up_date,omitempty"`
}

// CreateRequest is the body of POST /api/create_record.
type CreateRequest struct {
	PatientID   int64             `json:"patient_id"`
	RecordType  string            `json:"type"`
	Description string            `json:"description"`
	Details     string            `json:"details,omitempty"`
	DateOfEvent string            `json:"date_of_event,omitempty"`
	Treatment   *TreatmentPayload `json:"treatment"`
}

// AddAllergyRequest is the allergy variant of POST /api/add_data.
type AddAllergyRequest struct {
	PatientID int64  `json:"patient_id"`
	Allergy   string `json:"allergy"`
	Severity  string `json:"severity,omitempty"`
	Reaction  string `json:"reaction,omitempty"`
	Notes     string `json:"notes,omitempty"`
}
