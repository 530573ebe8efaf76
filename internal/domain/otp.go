package domain

import (
	"context"
	"time"
)

// OTPEntry is the pending code for one phone number. Only a hash of the code
// is kept.
type OTPEntry struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OTPStore holds at most one live entry per phone number.
type OTPStore interface {
	// Put replaces any existing entry. ttl bounds how long the store keeps it.
	Put(ctx context.Context, phone string, entry OTPEntry, ttl time.Duration) error
	// Get returns ErrOTPNotFound when no entry exists.
	Get(ctx context.Context, phone string) (*OTPEntry, error)
	// Delete reports whether an entry was actually removed.
	Delete(ctx context.Context, phone string) (bool, error)
}

// OTPDispatch is returned after a code is issued. Code is only filled when
// the deployment allows exposing codes.
type OTPDispatch struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
	Code        string    `json:"otp,omitempty"`
}

// Session identifies an authenticated caller.
type Session struct {
	UserID      string `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
}

type AuthUsecase interface {
	SendCode(ctx context.Context, phone string) (*OTPDispatch, error)
	VerifyCode(ctx context.Context, phone, code string) (*Session, error)
	CurrentUser(ctx context.Context, userID string) (*User, error)
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,valid_phone"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,valid_phone"`
	OTP         string `json:"otp" binding:"required"`
}
