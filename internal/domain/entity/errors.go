package entity

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateFlightCode = errors.New("a flight with this code is already active")
	ErrFlightNotFound      = errors.New("flight not found")
	ErrNotAuthorized       = errors.New("not permitted")
	ErrDeliveryBlocked     = errors.New("recipient does not accept direct messages")
	ErrGateResolved        = errors.New("confirmation already resolved")
	ErrGateForbidden       = errors.New("only the flight host can answer this confirmation")
	ErrInvalidTransition   = errors.New("invalid flight state transition")
	ErrEventMissing        = errors.New("scheduled event no longer exists")
)

// ValidationError reports malformed user input. Nothing is mutated when it
// is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// PlatformError wraps a failed chat platform call. Callers can use errors.As
// to extract the operation:
//
//	var platformErr *PlatformError
//	if errors.As(err, &platformErr) { ... platformErr.Op ... }
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError creates a PlatformError
func NewPlatformError(op string, err error) *PlatformError {
	return &PlatformError{Op: op, Err: err}
}

// UserMessage converts any error into the single message shown to the
// invoker. Details of authorization failures are never revealed.
func UserMessage(err error) string {
	var validationErr *ValidationError
	var platformErr *PlatformError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return "Error: " + validationErr.Error()
	case errors.Is(err, ErrNotAuthorized):
		return "You are not permitted to use this command."
	case errors.Is(err, ErrDuplicateFlightCode):
		return "Error: a flight with this code is already active."
	case errors.Is(err, ErrFlightNotFound):
		return "Error: no active flight with that code was found."
	case errors.Is(err, ErrGateResolved):
		return "This confirmation has already been resolved."
	case errors.Is(err, ErrGateForbidden):
		return "Only the flight host can answer this confirmation."
	case errors.Is(err, ErrEventMissing):
		return "Error: the flight's Discord event no longer exists. Cancel the flight and create it again."
	case errors.Is(err, ErrInvalidTransition):
		return "Error: the flight cannot do that in its current state."
	case errors.As(err, &platformErr):
		return fmt.Sprintf("Error: Discord rejected the request (%s). Please try again later.", platformErr.Op)
	default:
		return "Error: something went wrong while handling the command."
	}
}
