package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrValidation         = errors.New("validation failed")
)

// OTP verification outcomes
var (
	ErrOTPNotFound = errors.New("OTP not found or expired")
	ErrOTPExpired  = errors.New("OTP has expired")
	ErrOTPMismatch = errors.New("invalid OTP")
)
