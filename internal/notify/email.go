// Package notify delivers outbound mail. The two-method contract separates
// security-critical mail, whose failure the caller must handle, from
// informational mail that must never fail a request.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Sender is the outbound notification contract.
type Sender interface {
	// SendCritical delivers mail the caller must not silently lose
	// (password resets). Failures propagate.
	SendCritical(ctx context.Context, to, subject, body string) error

	// SendBestEffort delivers informational mail (alert notifications).
	// Failures are logged and swallowed.
	SendBestEffort(ctx context.Context, to, subject, body string)
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var _ Sender = (*SMTPSender)(nil)

// SMTPSender delivers mail synchronously over SMTP.
type SMTPSender struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From, logger: logger}, nil
}

func (s *SMTPSender) SendCritical(ctx context.Context, to, subject, body string) error {
	if err := s.send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) SendBestEffort(ctx context.Context, to, subject, body string) {
	if err := s.send(ctx, to, subject, body); err != nil {
		s.logger.WarnContext(ctx, "Best-effort email delivery failed",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.Any("error", err))
	}
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return s.client.DialAndSendWithContext(ctx, msg)
}

var _ Sender = (*LogSender)(nil)

// LogSender is used when SMTP is not configured: it logs instead of sending,
// so local setups work without a mail server.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) SendCritical(ctx context.Context, to, subject, _ string) error {
	s.Logger.InfoContext(ctx, "Email delivery skipped (SMTP not configured)",
		slog.String("to", to), slog.String("subject", subject))
	return nil
}

func (s *LogSender) SendBestEffort(ctx context.Context, to, subject, _ string) {
	s.Logger.InfoContext(ctx, "Email delivery skipped (SMTP not configured)",
		slog.String("to", to), slog.String("subject", subject))
}
