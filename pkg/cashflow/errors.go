package cashflow

import (
	"errors"
	"fmt"

	internalTypes "github.com/eshaffer321/cashflow-go/internal/types"
)

var (
	// ErrNotFound is returned when an entity, goal or remote record does not exist
	ErrNotFound = internalTypes.ErrNotFound

	// ErrRateLimited is returned when a collaborator rate limits us
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrInvalidRequest is returned for invalid requests
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotConfigured is returned when an optional collaborator has no endpoint
	ErrNotConfigured = errors.New("collaborator not configured")

	// ErrGoalAllocation is returned when a deposit exceeds the unallocated savings
	ErrGoalAllocation = errors.New("deposit exceeds unallocated savings")

	// ErrInsufficientGoalBalance is returned when a withdrawal exceeds the goal balance
	ErrInsufficientGoalBalance = errors.New("withdrawal exceeds goal balance")
)

// Error represents a collaborator error
type Error = internalTypes.Error

// ValidationError represents a malformed entity or goal
type ValidationError struct {
	EntityID string      `json:"entityId,omitempty"`
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Value    interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("validation error on entity '%s' field '%s': %s", e.EntityID, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is match any ValidationError against ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []*ValidationError `json:"errors"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Is lets errors.Is match ValidationErrors against ErrInvalidRequest
func (e *ValidationErrors) Is(target error) bool {
	return target == ErrInvalidRequest
}

// orNil returns nil when no errors were collected
func (e *ValidationErrors) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
