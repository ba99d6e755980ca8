package appointments

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/telemetry"
)

// DefaultDurationMinutes is used when a schedule request carries no
// explicit duration.
const DefaultDurationMinutes = 60

// Config holds scheduling defaults.
type Config struct {
	DefaultDuration time.Duration
}

// LoadConfig reads scheduling settings from the environment.
func LoadConfig() Config {
	minutes := DefaultDurationMinutes
	if v := os.Getenv("APPOINTMENT_DEFAULT_DURATION_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			minutes = parsed
		}
	}
	return Config{DefaultDuration: time.Duration(minutes) * time.Minute}
}

type Service struct {
	repo      RepositoryInterface
	cfg       Config
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, cfg Config, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultDurationMinutes * time.Minute
	}
	return &Service{repo: repo, cfg: cfg, publisher: publisher, metrics: metrics}
}

// Schedule books a new appointment. Patients can only book for themselves;
// staff must name the patient in the request. The duration is an explicit
// input with a configured default, never derived from anything else.
func (s *Service) Schedule(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error) {
	patientID := req.PatientID
	if pr != nil && pr.Role == auth.RolePatient {
		patientID = pr.ID
	}
	if patientID == 0 {
		return nil, ErrMissingPatient
	}
	if req.DoctorID == 0 {
		return nil, ErrMissingDoctor
	}

	day, err := time.ParseInLocation(DateLayout, req.Date, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	clock, err := time.Parse(TimeLayout, req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}

	start := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local)

	duration := s.cfg.DefaultDuration
	if req.DurationMinutes != 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}
	end := start.Add(duration)

	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	appointment := &Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		StartTime:       start,
		EndTime:         end,
		Status:          StatusScheduled,
		AppointmentType: req.Reason,
		Notes:           req.Notes,
	}

	if err := s.repo.Create(appointment); err != nil {
		return nil, err
	}

	s.metrics.RecordAppointment(ctx, "scheduled")
	s.publishEvent(ctx, messaging.EventAppointmentScheduled, appointment)

	return appointment, nil
}

// Cancel moves a Scheduled appointment to Cancelled. Patients can only
// cancel their own appointments.
func (s *Service) Cancel(ctx context.Context, pr *auth.Principal, id int64) (*Appointment, error) {
	return s.transition(ctx, pr, id, StatusCancelled)
}

// UpdateStatus moves a Scheduled appointment to a terminal outcome state
// (Completed, Cancelled or No-show).
func (s *Service) UpdateStatus(ctx context.Context, pr *auth.Principal, id int64, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.transition(ctx, pr, id, status)
}

func (s *Service) transition(ctx context.Context, pr *auth.Principal, id int64, to string) (*Appointment, error) {
	appointment, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if pr != nil {
		switch pr.Role {
		case auth.RolePatient:
			if appointment.PatientID != pr.ID {
				return nil, ErrForbidden
			}
		case auth.RoleDoctor:
			if appointment.DoctorID != pr.ID {
				return nil, ErrForbidden
			}
		}
	}

	if !CanTransition(appointment.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(id, appointment.Status, to); err != nil {
		return nil, err
	}
	appointment.Status = to

	switch to {
	case StatusCancelled:
		s.metrics.RecordAppointment(ctx, "cancelled")
		s.publishEvent(ctx, messaging.EventAppointmentCancelled, appointment)
	case StatusCompleted:
		s.metrics.RecordAppointment(ctx, "completed")
		s.publishEvent(ctx, messaging.EventAppointmentCompleted, appointment)
	default:
		s.metrics.RecordAppointment(ctx, "no_show")
	}

	return appointment, nil
}

// ListForPrincipal returns the appointments the caller is allowed to see:
// patients their own, doctors theirs, admins everything.
func (s *Service) ListForPrincipal(ctx context.Context, pr *auth.Principal) ([]View, error) {
	if pr == nil {
		return nil, ErrForbidden
	}

	switch pr.Role {
	case auth.RolePatient:
		return s.repo.ListByPatient(pr.ID)
	case auth.RoleDoctor:
		return s.repo.ListByDoctor(pr.ID)
	case auth.RoleAdmin:
		return s.repo.ListAll()
	}
	return nil, ErrForbidden
}

func (s *Service) publishEvent(ctx context.Context, eventType string, a *Appointment) {
	if s.publisher == nil {
		return
	}

	event := messaging.AppointmentEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.AppointmentEventData{
			AppointmentID: a.AppointmentID,
			PatientID:     a.PatientID,
			DoctorID:      a.DoctorID,
			Status:        a.Status,
			StartTime:     a.StartTime,
			EndTime:       a.EndTime,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
