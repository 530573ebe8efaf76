package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSecurityLoggerHashesPhone(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "easemyform-api", "test")

	sl.LogOTPFailed(context.Background(), "+917697470397", "otp_mismatch")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, string(EventOTPFailed), entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, HashValue("+917697470397"), fields["subject_value"])
	assert.NotContains(t, fields["subject_value"], "7697470397")
	assert.Contains(t, fields["details"], "otp_mismatch")
}

func TestSecurityLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "easemyform-api", "test")

	sl.LogOTPSent(context.Background(), "+911234567890")
	sl.LogAdminDenied(context.Background(), "user-1", "10.0.0.1", "req-1", "/api/admin/users")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********0397", MaskPhone("+917697470397"))
	assert.Equal(t, "****", MaskPhone("123"))
}

func TestEventSeverity(t *testing.T) {
	assert.Equal(t, SeverityINFO, GetSeverity(EventOTPVerified))
	assert.Equal(t, SeverityWARN, GetSeverity(EventUploadRejected))
	assert.True(t, IsHighOrAbove(EventAdminDenied))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("unknown")))

	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "easemyform-api", "test")
	sl.LogUploadLimited(context.Background(), "10.0.0.1", "", "req-1")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "WARN", logs.All()[0].ContextMap()["severity"])
}
