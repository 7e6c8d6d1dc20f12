package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrVendorProfileMissing = errors.New("vendor profile not found")
	ErrVendorInactive     = errors.New("vendor account inactive")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStaleBooking       = errors.New("booking was modified concurrently")
)

// ValidationError carries the field-level message for a VALIDATION failure.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// LockedError reports an active lockout and how long it has left.
// errors.Is(err, ErrAccountLocked) holds.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, try again in %d minutes",
		int(e.RetryAfter.Round(time.Minute).Minutes()))
}

func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }

// CredentialsError is an invalid-credentials failure that optionally reports
// how many attempts remain before lockout. The message stays generic about
// whether the email exists.
// errors.Is(err, ErrInvalidCredentials) holds.
type CredentialsError struct {
	RemainingAttempts int
}

func (e *CredentialsError) Error() string {
	if e.RemainingAttempts > 0 {
		return fmt.Sprintf("invalid email or password; %d attempts remaining before lockout", e.RemainingAttempts)
	}
	return "invalid email or password"
}

func (e *CredentialsError) Is(target error) bool { return target == ErrInvalidCredentials }

// TransitionError names both states of a rejected booking status change.
// errors.Is(err, ErrInvalidTransition) holds.
type TransitionError struct {
	From, To BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
