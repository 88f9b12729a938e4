package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// SMTPConfig holds mail relay settings.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// SMTPMailer delivers queued emails through a plain SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer constructs SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (m *SMTPMailer) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: \"ADTS\" <%s>\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("\r\n")
	msg.WriteString(payload.Body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, nil, m.cfg.From, []string{payload.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", payload.To, err)
	}
	m.logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}

// OTPMailer adapts the task queue to the auth mailer port: sending an OTP
// just enqueues a mail:send task.
type OTPMailer struct {
	client *Client
}

// NewOTPMailer constructs OTPMailer.
func NewOTPMailer(client *Client) *OTPMailer {
	return &OTPMailer{client: client}
}

// SendOTP enqueues the recovery code email.
func (m *OTPMailer) SendOTP(ctx context.Context, email, code string) error {
	_, err := m.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: "Your OTP Code",
		Body:    fmt.Sprintf("Your OTP code is %s. It will expire in 5 minutes.", code),
	})
	return err
}
