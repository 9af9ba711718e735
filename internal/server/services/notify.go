package services

import (
	"context"

	"github.com/rashid4567/recruitiq/internal/logging"
)

// OtpSender delivers a one-time passcode to an email address. Delivery
// mechanics live behind this interface; the auth core only cares that a
// send was attempted.
type OtpSender interface {
	SendOtp(ctx context.Context, email, code string) error
}

// LogOtpSender writes the code to the structured log instead of sending
// mail. Used in development and tests.
type LogOtpSender struct {
	logger logging.Logger
}

// NewLogOtpSender constructs a sender that only logs.
func NewLogOtpSender(l logging.Logger) *LogOtpSender {
	return &LogOtpSender{logger: l.With("module", "otp_sender")}
}

func (s *LogOtpSender) SendOtp(ctx context.Context, email, code string) error {
	s.logger.Info(ctx, "otp issued", "email", email, "code", code)
	return nil
}
