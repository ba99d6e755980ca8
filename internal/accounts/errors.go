package accounts

import "errors"

var (
	ErrMissingUsername      = errors.New("username is required")
	ErrMissingPassword      = errors.New("password is required")
	ErrMissingName          = errors.New("name is required")
	ErrMissingEmail         = errors.New("email is required")
	ErrMissingLicenseNumber = errors.New("license number is required")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNotFound             = errors.New("account not found")
	ErrDuplicateAccount     = errors.New("account with these details already exists")
	// ErrInvalidCredentials is deliberately generic: it covers unknown
	// identifier, wrong role, inactive account and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
