package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrAirportNotFound = errors.New("airport not found")
	ErrFlightNotFound  = errors.New("flight not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrBookingRequired = errors.New("valid booking reference required")
	ErrTrackingNotOpen = errors.New("tracking is not open yet")
	ErrForbidden       = errors.New("forbidden")
)

var (
	ErrDuplicateReference = errors.New("booking reference already exists")
	ErrReferenceExhausted = errors.New("could not allocate a unique booking reference")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateCode      = errors.New("code already exists")
)

var ErrValidation = errors.New("validation error")

// ValidationError wraps ErrValidation with a field-level message.
func ValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
