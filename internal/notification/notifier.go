package notification

import (
	"context"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/frahmantamala/club-finance/internal"
)

// Result is the outcome of one delivery attempt. Delivery failures are
// reported here rather than as errors so callers can keep going.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) Result
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer delivers HTML mail through a single SMTP relay.
type SMTPMailer struct {
	dialer   sender
	from     string
	fromName string
	logger   *slog.Logger
}

func NewSMTPMailer(cfg internal.MailConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Error: err.Error()}
	}

	if err := s.dialer.DialAndSend(s.message(to, subject, htmlBody)); err != nil {
		s.logger.Error("SMTPMailer: delivery failed", "to", to, "subject", subject, "error", err)
		return Result{Error: err.Error()}
	}

	s.logger.Debug("SMTPMailer: delivered", "to", to, "subject", subject)
	return Result{Success: true}
}

func (s *SMTPMailer) message(to, subject, htmlBody string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return m
}
