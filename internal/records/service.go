package records

import (
	"context"
	"log"
	"time"

	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/telemetry"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics}
}

// Create writes a treatment and the record documenting it for the acting
// doctor. The two inserts are a single transaction in the repository.
func (s *Service) Create(ctx context.Context, doctorID int64, req CreateRequest) (*Record, *Treatment, error) {
	if req.PatientID == 0 {
		return nil, nil, ErrMissingPatient
	}
	if !ValidRecordType(req.RecordType) {
		return nil, nil, ErrInvalidRecordType
	}
	if req.Description == "" {
		return nil, nil, ErrMissingDescription
	}
	if req.Treatment == nil || req.Treatment.Description == "" {
		return nil, nil, ErrMissingTreatment
	}

	now := time.Now()

	treatmentDate := now
	if req.Treatment.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Treatment.Date, time.Local)
		if err != nil {
			return nil, nil, ErrInvalidDate
		}
		treatmentDate = parsed
	}

	var followUp *time.Time
	if req.Treatment.FollowUpDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.Treatment.FollowUpDate, time.Local)
		if err != nil {
			return nil, nil, ErrInvalidDate
		}
		followUp = &parsed
	}

	dateOfEvent := now
	if req.DateOfEvent != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.DateOfEvent, time.Local)
		if err != nil {
			return nil, nil, ErrInvalidDate
		}
		dateOfEvent = parsed
	}

	treatment := &Treatment{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		TreatmentDate: treatmentDate,
		Description:   req.Treatment.Description,
		Diagnosis:     req.Treatment.Diagnosis,
		FollowUpDate:  followUp,
	}
	record := &Record{
		PatientID:   req.PatientID,
		RecordType:  req.RecordType,
		Description: req.Description,
		Details:     req.Details,
		DateOfEvent: dateOfEvent,
		RecordedBy:  doctorID,
	}

	if err := s.repo.CreatePair(treatment, record); err != nil {
		return nil, nil, err
	}

	s.metrics.RecordPatientRecord(ctx, record.RecordType)
	s.publishCreated(ctx, record, treatment)

	return record, treatment, nil
}

// ListByPatient returns a patient's records with treatments joined in.
func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]View, error) {
	return s.repo.ListByPatient(patientID)
}

// AddAllergy records one allergy for a patient.
func (s *Service) AddAllergy(ctx context.Context, req AddAllergyRequest) (*Allergy, error) {
	if req.PatientID == 0 {
		return nil, ErrMissingPatient
	}
	if req.Allergy == "" {
		return nil, ErrMissingAllergy
	}

	severity := req.Severity
	if severity == "" {
		severity = SeverityUnknown
	}
	if !ValidSeverity(severity) {
		return nil, ErrInvalidSeverity
	}

	now := time.Now()
	allergy := &Allergy{
		PatientID:       req.PatientID,
		Allergy:         req.Allergy,
		Severity:        severity,
		Reaction:        req.Reaction,
		FirstIdentified: &now,
		Notes:           req.Notes,
	}

	if err := s.repo.CreateAllergy(allergy); err != nil {
		return nil, err
	}
	return allergy, nil
}

// ListAllergies returns a patient's allergies.
func (s *Service) ListAllergies(ctx context.Context, patientID int64) ([]Allergy, error) {
	return s.repo.ListAllergies(patientID)
}

func (s *Service) publishCreated(ctx context.Context, record *Record, treatment *Treatment) {
	if s.publisher == nil {
		return
	}

	event := messaging.RecordCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventRecordCreated),
		Data: messaging.RecordCreatedData{
			RecordID:    record.RecordID,
			TreatmentID: treatment.TreatID,
			PatientID:   record.PatientID,
			RecordType:  record.RecordType,
			RecordedBy:  record.RecordedBy,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventRecordCreated, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", messaging.EventRecordCreated, err)
	}
}
