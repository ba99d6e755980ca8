package prescriptions

import (
	"context"
	"time"

	"github.com/health-hub/records-service/internal/auth"
)

// ServiceInterface defines the prescription business operations.
type ServiceInterface interface {
	Create(ctx context.Context, doctorID int64, req CreateRequest) (*Prescription, error)
	Issue(ctx context.Context, prescriptionID, pharmacistID int64) (*Prescription, error)
	CancelPending(ctx context.Context, id int64) (*Prescription, error)
	ListForPrincipal(ctx context.Context, pr *auth.Principal) ([]Prescription, error)
	ListForPharmacist(ctx context.Context, pharmacistID int64) ([]Prescription, error)
	ExpireStale(ctx context.Context, retention time.Duration) (int64, error)
	AddMedication(ctx context.Context, req AddMedicationRequest) (*Medication, error)
	ListMedications(ctx context.Context) ([]Medication, error)
}

var _ ServiceInterface = (*Service)(nil)
