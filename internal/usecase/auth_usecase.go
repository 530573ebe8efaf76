package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/security"
	"easemyform-backend/pkg/sms"
	"easemyform-backend/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpMin        = 100000
	otpSpan       = 900000
	DefaultOTPTTL = 5 * time.Minute
)

// AuthAuditor receives security events for the OTP flow.
type AuthAuditor interface {
	LogOTPSent(ctx context.Context, phone string)
	LogOTPVerified(ctx context.Context, phone, userID string, isAdmin bool)
	LogOTPFailed(ctx context.Context, phone, reason string)
}

type AuthConfig struct {
	OTPTTL     time.Duration
	AdminPhone string // canonical form
	ExposeCode bool
	BcryptCost int
	Clock      func() time.Time
}

type authUsecase struct {
	users  domain.UserRepository
	otps   domain.OTPStore
	sender sms.Sender
	audit  AuthAuditor
	cfg    AuthConfig
}

func NewAuthUsecase(users domain.UserRepository, otps domain.OTPStore, sender sms.Sender, audit AuthAuditor, cfg AuthConfig) domain.AuthUsecase {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = DefaultOTPTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if audit == nil {
		audit = security.NewNopLogger()
	}
	return &authUsecase{users: users, otps: otps, sender: sender, audit: audit, cfg: cfg}
}

// SendCode issues a fresh code for phone, replacing any pending one.
func (u *authUsecase) SendCode(ctx context.Context, rawPhone string) (*domain.OTPDispatch, error) {
	if strings.TrimSpace(rawPhone) == "" {
		return nil, validationError("Phone number is required")
	}
	phone, ok := validation.NormalizePhone(rawPhone)
	if !ok {
		return nil, validationError("Invalid phone number format")
	}

	code, err := generateCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), u.cfg.BcryptCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to hash otp: %w", err))
	}

	expiresAt := u.cfg.Clock().Add(u.cfg.OTPTTL)
	entry := domain.OTPEntry{CodeHash: string(hash), ExpiresAt: expiresAt}
	if err := u.otps.Put(ctx, phone, entry, u.cfg.OTPTTL); err != nil {
		return nil, storeError("store otp", err)
	}

	message, err := sms.RenderCodeMessage(sms.CodeMessageData{Code: code, ValidFor: u.cfg.OTPTTL})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.sender.Send(ctx, phone, message); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to send OTP", err)
	}
	u.audit.LogOTPSent(ctx, phone)

	dispatch := &domain.OTPDispatch{PhoneNumber: phone, ExpiresAt: expiresAt}
	if u.cfg.ExposeCode {
		dispatch.Code = code
	}
	return dispatch, nil
}

// VerifyCode consumes the pending code for phone and logs the user in.
func (u *authUsecase) VerifyCode(ctx context.Context, rawPhone, code string) (*domain.Session, error) {
	if strings.TrimSpace(rawPhone) == "" || strings.TrimSpace(code) == "" {
		return nil, validationError("Phone number and OTP are required")
	}
	phone, ok := validation.NormalizePhone(rawPhone)
	if !ok {
		return nil, validationError("Invalid phone number format")
	}
	code = strings.TrimSpace(code)

	entry, err := u.otps.Get(ctx, phone)
	if errors.Is(err, domain.ErrOTPNotFound) {
		return nil, u.reject(ctx, phone, domain.ErrOTPNotFound)
	}
	if err != nil {
		return nil, storeError("load otp", err)
	}

	if u.cfg.Clock().After(entry.ExpiresAt) {
		if _, err := u.otps.Delete(ctx, phone); err != nil {
			logger.Log.WarnContext(ctx, "failed to drop expired otp", "phone", security.MaskPhone(phone), "error", err)
		}
		return nil, u.reject(ctx, phone, domain.ErrOTPExpired)
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(code)) != nil {
		return nil, u.reject(ctx, phone, domain.ErrOTPMismatch)
	}

	removed, err := u.otps.Delete(ctx, phone)
	if err != nil {
		return nil, storeError("consume otp", err)
	}
	if !removed {
		// another request consumed the same code first
		return nil, u.reject(ctx, phone, domain.ErrOTPNotFound)
	}

	isAdmin := u.cfg.AdminPhone != "" && phone == u.cfg.AdminPhone
	userID, created, err := u.users.GetOrCreate(ctx, phone, isAdmin)
	if err != nil {
		return nil, storeError("create user", err)
	}
	if created {
		logger.Log.InfoContext(ctx, "user created", "user_id", userID, "is_admin", isAdmin)
	}

	if err := u.users.TouchLogin(ctx, userID); err != nil {
		logger.Log.WarnContext(ctx, "failed to record last login", "user_id", userID, "error", err)
	}

	u.audit.LogOTPVerified(ctx, phone, userID, isAdmin)
	return &domain.Session{UserID: userID, PhoneNumber: phone, IsAdmin: isAdmin}, nil
}

func (u *authUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return loadCaller(ctx, u.users, userID)
}

func (u *authUsecase) reject(ctx context.Context, phone string, cause error) error {
	var reason, message string
	switch cause {
	case domain.ErrOTPExpired:
		reason, message = apperror.ReasonOTPExpired, "OTP has expired"
	case domain.ErrOTPMismatch:
		reason, message = apperror.ReasonOTPMismatch, "Invalid OTP"
	default:
		reason, message = apperror.ReasonOTPNotFound, "OTP not found or expired"
	}
	u.audit.LogOTPFailed(ctx, phone, reason)
	return apperror.New(http.StatusBadRequest, message, cause).WithReason(reason)
}

// generateCode returns a uniformly random six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
