// Package common defines shared constants, sentinel errors and small helpers
// used across the scmexpert server and its tools. Callers should use
// errors.Is to match the error values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrValidation       = errors.New("validation error")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSelfModification = errors.New("cannot modify own account")

	// Auth errors. Malformed, mis-signed and expired tokens all map to
	// ErrInvalidToken.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrInactiveUser = errors.New("inactive user")
	ErrForbidden    = errors.New("forbidden")

	// Uniqueness errors.
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateShipmentID = errors.New("shipment id already exists")

	// Password reset errors.
	ErrInvalidOrExpiredResetToken = errors.New("invalid or expired password reset token")
)
