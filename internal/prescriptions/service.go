package prescriptions

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/health-hub/records-service/internal/auth"
	"github.com/health-hub/records-service/internal/messaging"
	"github.com/health-hub/records-service/internal/telemetry"
)

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: metrics}
}

// newPresCode derives a short unique prescription code.
func newPresCode() string {
	return "RX-" + strings.ToUpper(uuid.New().String()[:8])
}

// Create writes a new Pending prescription for the acting doctor.
func (s *Service) Create(ctx context.Context, doctorID int64, req CreateRequest) (*Prescription, error) {
	if req.PatientID == 0 {
		return nil, ErrMissingPatient
	}
	if req.Medication == "" {
		return nil, ErrMissingMedication
	}
	if req.RefillsRemaining < 0 {
		return nil, ErrNegativeRefills
	}

	prescription := &Prescription{
		PresCode:         newPresCode(),
		PatientID:        req.PatientID,
		DoctorID:         doctorID,
		Medication:       req.Medication,
		Dosage:           req.Dosage,
		Instructions:     req.Instructions,
		RefillsRemaining: req.RefillsRemaining,
		Status:           StatusPending,
	}

	if err := s.repo.Create(prescription); err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(ctx, "created")
	s.publishEvent(ctx, messaging.EventPrescriptionCreated, prescription)

	return prescription, nil
}

// Issue fills a Pending prescription on behalf of the acting pharmacist.
// The repository runs the whole fill as one transaction.
func (s *Service) Issue(ctx context.Context, prescriptionID, pharmacistID int64) (*Prescription, error) {
	prescription, err := s.repo.Issue(prescriptionID, pharmacistID)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPrescription(ctx, "filled")
	s.publishEvent(ctx, messaging.EventPrescriptionFilled, prescription)

	return prescription, nil
}

// CancelPending cancels a prescription that has not been filled yet.
func (s *Service) CancelPending(ctx context.Context, id int64) (*Prescription, error) {
	prescription, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if prescription.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(id, StatusPending, StatusCancelled); err != nil {
		return nil, err
	}
	prescription.Status = StatusCancelled

	s.metrics.RecordPrescription(ctx, "cancelled")
	return prescription, nil
}

// ListForPrincipal returns the prescriptions the caller may see: patients
// their own, doctors the ones they prescribed, admins everything.
func (s *Service) ListForPrincipal(ctx context.Context, pr *auth.Principal) ([]Prescription, error) {
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
	default:
		return nil, ErrForbidden
	}
}

// ListForPharmacist returns the pharmacist's work queue.
func (s *Service) ListForPharmacist(ctx context.Context, pharmacistID int64) ([]Prescription, error) {
	return s.repo.ListForPharmacist(pharmacistID)
}

// ExpireStale sweeps Pending prescriptions older than the retention window
// to Expired and reports how many were swept.
func (s *Service) ExpireStale(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	swept, err := s.repo.ExpirePending(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale prescriptions: %w", err)
	}

	if swept > 0 {
		s.metrics.RecordPrescription(ctx, "expired")
		if s.publisher != nil {
			event := messaging.PrescriptionEvent{
				BaseEvent: messaging.NewBaseEvent(messaging.EventPrescriptionExpired),
				Data: messaging.PrescriptionEventData{
					Status: StatusExpired,
				},
			}
			if err := s.publisher.Publish(ctx, messaging.EventPrescriptionExpired, event); err != nil {
				log.Printf("Warning: failed to publish %s event: %v", messaging.EventPrescriptionExpired, err)
			}
		}
	}

	return swept, nil
}

// AddMedication adds one medication to the inventory.
func (s *Service) AddMedication(ctx context.Context, req AddMedicationRequest) (*Medication, error) {
	if req.Name == "" {
		return nil, ErrMissingMedication
	}
	if req.InStock < 0 {
		return nil, ErrNegativeStock
	}

	medication := &Medication{
		Name:        req.Name,
		Ingredients: req.Ingredients,
		InStock:     req.InStock,
	}

	if err := s.repo.CreateMedication(medication); err != nil {
		return nil, err
	}
	return medication, nil
}

// ListMedications returns the medication inventory.
func (s *Service) ListMedications(ctx context.Context) ([]Medication, error) {
	return s.repo.ListMedications()
}

func (s *Service) publishEvent(ctx context.Context, eventType string, p *Prescription) {
	if s.publisher == nil {
		return
	}

	data := messaging.PrescriptionEventData{
		PrescriptionID: p.PrescriptionID,
		PresCode:       p.PresCode,
		PatientID:      p.PatientID,
		Medication:     p.Medication,
		Status:         p.Status,
	}
	if p.PharmacistID != nil {
		data.PharmacistID = *p.PharmacistID
	}

	event := messaging.PrescriptionEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data:      data,
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
