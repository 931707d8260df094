package domain

import (
	"errors"
	"strings"
)

// Account errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoIdentifier       = errors.New("either phone or email is required")
	ErrWeakPassword       = errors.New("password does not meet strength policy")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPMismatch    = errors.New("invalid otp code")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
)

// Authorization errors
var (
	ErrForbidden        = errors.New("forbidden")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// ValidationError carries field-level reasons for malformed input,
// e.g. every password policy rule that failed. It is surfaced directly
// to the caller and never recorded as a security event.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	if len(e.Reasons) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// Is lets errors.Is match a ValidationError against ErrWeakPassword.
func (e *ValidationError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Infrastructure errors
var (
	// ErrUnavailable means the underlying store could not be reached.
	// Callers must never fold it into an authentication failure.
	ErrUnavailable = errors.New("service unavailable")
)
