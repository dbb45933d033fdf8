package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// One-time code failures. Their messages are safe to show to the caller.
var (
	ErrCodeNotFound     = errors.New("no valid code found for this email")
	ErrCodeExpired      = errors.New("code has expired")
	ErrAttemptsExceeded = errors.New("maximum verification attempts exceeded")
	ErrCodeMismatch     = errors.New("invalid code")
)

// Infrastructure failures. Handlers report these generically and log the wrapped cause.
var (
	ErrStorage        = errors.New("storage failure")
	ErrDeliveryFailed = errors.New("code delivery failed")
)

// Session token failures.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// MismatchError reports a wrong code together with the attempts left on the record.
// It matches ErrCodeMismatch, and also ErrAttemptsExceeded once Remaining reaches zero.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	if e.Remaining <= 0 {
		return "invalid code: maximum attempts exceeded"
	}
	return fmt.Sprintf("invalid code: %d attempts remaining", e.Remaining)
}

func (e *MismatchError) Unwrap() []error {
	if e.Remaining <= 0 {
		return []error{ErrCodeMismatch, ErrAttemptsExceeded}
	}
	return []error{ErrCodeMismatch}
}
