package security

import "go.uber.org/zap/zapcore"

// Severity represents the severity level of a security event.
// It is derived from the EventType, never supplied by callers.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the fixed severity for each event type
var EventSeverityMap = map[EventType]Severity{
	// INFO - Normal operations
	EventOTPSent:     SeverityINFO,
	EventOTPVerified: SeverityINFO,

	// WARN - Potential abuse, monitor
	EventOTPFailed:          SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventUploadLimited:      SeverityWARN,
	EventUploadRejected:     SeverityWARN,

	// HIGH - Someone probing the admin panel
	EventAdminDenied: SeverityHIGH,
}

// GetSeverity returns the severity for an event type.
// Unmapped event types default to MEDIUM.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove returns true if the event is HIGH severity
func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}

func (s Severity) level() zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
