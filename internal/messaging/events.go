package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Account events (all four principal kinds)
	EventAccountCreated     = "account.created"
	EventAccountUpdated     = "account.updated"
	EventAccountDeactivated = "account.deactivated"
	EventAccountDeleted     = "account.deleted"

	// Appointment events
	EventAppointmentScheduled = "appointment.scheduled"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"

	// Clinical events
	EventRecordCreated = "record.created"

	// Prescription events
	EventPrescriptionCreated = "prescription.created"
	EventPrescriptionFilled  = "prescription.filled"
	EventPrescriptionExpired = "prescription.expired"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// NewBaseEvent creates a BaseEvent with a fresh event ID and timestamp.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		ServiceName: "records-service",
	}
}

// AccountEvent covers create/update/deactivate/delete of a principal.
type AccountEvent struct {
	BaseEvent
	Data AccountEventData `json:"data"`
}

type AccountEventData struct {
	AccountID  int64     `json:"account_id"`
	Role       string    `json:"role"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AppointmentEvent covers appointment lifecycle changes.
type AppointmentEvent struct {
	BaseEvent
	Data AppointmentEventData `json:"data"`
}

type AppointmentEventData struct {
	AppointmentID int64     `json:"appointment_id"`
	PatientID     int64     `json:"patient_id"`
	DoctorID      int64     `json:"doctor_id"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// RecordCreatedEvent announces a new treatment/record pair.
type RecordCreatedEvent struct {
	BaseEvent
	Data RecordCreatedData `json:"data"`
}

type RecordCreatedData struct {
	RecordID    int64  `json:"record_id"`
	TreatmentID int64  `json:"treatment_id"`
	PatientID   int64  `json:"patient_id"`
	RecordType  string `json:"record_type"`
	RecordedBy  int64  `json:"recorded_by"`
}

// PrescriptionEvent covers prescription lifecycle changes.
type PrescriptionEvent struct {
	BaseEvent
	Data PrescriptionEventData `json:"data"`
}

type PrescriptionEventData struct {
	PrescriptionID int64  `json:"prescription_id"`
	PresCode       string `json:"pres_code"`
	PatientID      int64  `json:"patient_id"`
	PharmacistID   int64  `json:"pharmacist_id,omitempty"`
	Medication     string `json:"medication"`
	Status         string `json:"status"`
}
