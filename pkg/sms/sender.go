// Package sms delivers one-time login codes to phone numbers.
package sms

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/security"
)

// Sender delivers a text message to a canonical phone number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// CodeMessageData holds the values rendered into the login code message
type CodeMessageData struct {
	Code      string
	ValidFor  time.Duration
	BrandName string
}

const codeMessageTemplate = `{{.Code}} is your {{.BrandName}} login code. It expires in {{minutes .ValidFor}} minutes. Do not share it with anyone.`

var codeMessage = template.Must(template.New("otp").Funcs(template.FuncMap{
	"minutes": func(d time.Duration) int { return int(d.Minutes()) },
}).Parse(codeMessageTemplate))

// RenderCodeMessage builds the SMS body for a login code.
func RenderCodeMessage(data CodeMessageData) (string, error) {
	if data.BrandName == "" {
		data.BrandName = "EaseMyForm"
	}
	var buf bytes.Buffer
	if err := codeMessage.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render sms template: %w", err)
	}
	return buf.String(), nil
}

// LogSender writes messages to the application log instead of a carrier.
// Used in development and whenever no SMS gateway is configured.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	logger.Log.InfoContext(ctx, "sms dispatched",
		"to", security.MaskPhone(phone),
		"length", len(message),
	)
	return nil
}
