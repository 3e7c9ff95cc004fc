package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. The API layer maps them to
// HTTP status codes.
var (
	// ErrTaskNotOwned indicates the task belongs to a different user.
	// It maps to 404 so task IDs cannot be probed across accounts.
	ErrTaskNotOwned = errors.New("task is owned by another user")

	// ErrInvalidTimezone indicates a user time zone that cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid time zone")
)

// ServiceError wraps an unexpected failure with the service and operation
// that produced it. Callers match the wrapped cause with errors.Is/As.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
