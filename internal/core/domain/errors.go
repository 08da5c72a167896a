package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent failures the migration flow distinguishes.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionViolated indicates an operation ran before its required
	// state was initialised. It is fatal and aborts the run.
	ErrPreconditionViolated = errors.New("precondition violated")

	// ErrUpstreamUnavailable indicates a remote call failed for reasons other
	// than rate limiting.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMissingConfiguration indicates a required configuration value is absent.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrSinkRejected indicates the ticket desk refused a ticket.
	// The issue stays unmarked so a later run retries it.
	ErrSinkRejected = errors.New("ticket rejected")
)

// UpstreamError is a failed remote call. StatusCode is zero when no HTTP
// response was received.
type UpstreamError struct {
	Service    string
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s: status %d: %v", e.Service, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// MissingConfigError names the configuration key that is absent.
type MissingConfigError struct {
	Key string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingConfiguration, e.Key)
}

func (e *MissingConfigError) Unwrap() error {
	return ErrMissingConfiguration
}
