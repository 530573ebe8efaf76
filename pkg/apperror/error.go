package apperror

import "net/http"

// Machine-readable reasons attached to client errors.
const (
	ReasonValidation         = "validation_error"
	ReasonOTPNotFound        = "otp_not_found"
	ReasonOTPExpired         = "otp_expired"
	ReasonOTPMismatch        = "otp_mismatch"
	ReasonStorageUnavailable = "storage_unavailable"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithReason sets the machine-readable reason and returns the same error.
func (e *AppError) WithReason(reason string) *AppError {
	e.Reason = reason
	return e
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation is a 400 tagged with the validation reason.
func Validation(message string) *AppError {
	return BadRequest(message).WithReason(ReasonValidation)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooLarge(message string) *AppError {
	return New(http.StatusRequestEntityTooLarge, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// Unavailable reports that the backing store could not be reached.
func Unavailable(err error) *AppError {
	return New(http.StatusInternalServerError, "Storage temporarily unavailable", err).
		WithReason(ReasonStorageUnavailable)
}
