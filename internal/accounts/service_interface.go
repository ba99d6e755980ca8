package accounts

import (
	"context"

	"github.com/health-hub/records-service/internal/pagination"
)

// ServiceInterface defines the account business operations.
type ServiceInterface interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Add(ctx context.Context, req *AddUserRequest) (int64, error)
	GetAccount(ctx context.Context, role string, id int64) (interface{}, error)
	ListAccounts(ctx context.Context) ([]AccountSummary, error)
	ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientsResponse, error)
	ListDoctors(ctx context.Context, params pagination.Params) (*PaginatedDoctorsResponse, error)
	Update(ctx context.Context, role string, id int64, req *UpdateUserRequest) error
	Delete(ctx context.Context, role string, id int64) error
}

var _ ServiceInterface = (*Service)(nil)
