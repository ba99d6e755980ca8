package appointments

import "time"

// Appointment statuses. Scheduled is the only non-terminal state.
const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
	StatusNoShow    = "No-show"
)

// Layouts for the date and time fields of a schedule request.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "3:04 PM"
)

// transitions maps a status to the statuses it may move to. Terminal
// states have no entry.
var transitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	AppointmentID   int64     `json:"appointment_id"`
	PatientID       int64     `json:"patient_id"`
	DoctorID        int64     `json:"doctor_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	AppointmentType string    `json:"appointment_type,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// View is an appointment row with the counterparty names joined in, the
// shape listing endpoints return.
type View struct {
	Appointment
	DoctorName  string `json:"doctor_name,omitempty"`
	PatientName string `json:"patient_name,omitempty"`
}

// ScheduleRequest is the body of POST /api/schedule_appointment. PatientID
// is ignored for patient callers, who can only book for themselves.
type ScheduleRequest struct {
	PatientID       int64  `json:"patient_id,omitempty"`
	DoctorID        int64  `json:"doctor_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Reason          string `json:"reason,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateStatusRequest is the body of PUT /api/update_appointment_status/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
