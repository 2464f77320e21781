package types

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// UserAgent is the user agent string
	UserAgent = "cashflow-go/1.0.0"
)

// Common errors
var (
	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrUnauthorized is returned when the remote rejects our credentials
	ErrUnauthorized = errors.New("unauthorized")
)
