package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventOTPSent            EventType = "otp_sent"
	EventOTPVerified        EventType = "otp_verified"
	EventOTPFailed          EventType = "otp_failed"
	EventAdminDenied        EventType = "admin_access_denied"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUploadLimited      EventType = "upload_limited"
	EventUploadRejected     EventType = "upload_rejected"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "phone", "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
)

// InitSecurityLogger initializes the security logger with Zap
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Containers collect stdout
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	defaultLogger = sl
	return sl
}

// NewSecurityLogger wraps an existing zap logger.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NewNopLogger discards every event.
func NewNopLogger() *SecurityLogger {
	return NewSecurityLogger(zap.NewNop(), "easemyform-api", "test")
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return InitSecurityLogger("easemyform-api", "development")
	}
	return defaultLogger
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	severity := GetSeverity(event.Event)
	level := severity.level()
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogOTPSent records that a code was issued for a phone number
func (sl *SecurityLogger) LogOTPSent(ctx context.Context, phone string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventOTPSent,
		SubjectType:  "phone",
		SubjectValue: HashValue(phone),
	})
}

// LogOTPVerified records a successful login
func (sl *SecurityLogger) LogOTPVerified(ctx context.Context, phone, userID string, isAdmin bool) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventOTPVerified,
		SubjectType:  "phone",
		SubjectValue: HashValue(phone),
		Details:      map[string]interface{}{"user_id": userID, "is_admin": isAdmin},
	})
}

// LogOTPFailed records a rejected verification attempt
func (sl *SecurityLogger) LogOTPFailed(ctx context.Context, phone, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventOTPFailed,
		SubjectType:  "phone",
		SubjectValue: HashValue(phone),
		Details:      map[string]interface{}{"reason": reason},
	})
}

// LogAdminDenied records a non-admin session hitting an admin route
func (sl *SecurityLogger) LogAdminDenied(ctx context.Context, userID, ip, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventAdminDenied,
		SubjectType:  "user_id",
		SubjectValue: userID,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogUploadLimited records an upload refused by the upload limiter
func (sl *SecurityLogger) LogUploadLimited(ctx context.Context, ip, userID, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadLimited,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"user_id": userID},
	})
}

// LogUploadRejected records a resume that failed content validation
func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, ip, requestID, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventUploadRejected,
		SubjectType: "ip",
		IP:          ip,
		RequestID:   requestID,
		Details:     map[string]interface{}{"filename": filename, "reason": reason},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskPhone keeps the last four digits (e.g. "******0397").
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(phone)-4:], phone[len(phone)-4:])
	return string(masked)
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}
