package appointments

import (
	"context"

	"github.com/health-hub/records-service/internal/auth"
)

// ServiceInterface defines the appointment business operations.
type ServiceInterface interface {
	Schedule(ctx context.Context, pr *auth.Principal, req ScheduleRequest) (*Appointment, error)
	Cancel(ctx context.Context, pr *auth.Principal, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, pr *auth.Principal, id int64, status string) (*Appointment, error)
	ListForPrincipal(ctx context.Context, pr *auth.Principal) ([]View, error)
}

var _ ServiceInterface = (*Service)(nil)
