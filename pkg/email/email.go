package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"contact-mailer-backend/config"
	"contact-mailer-backend/pkg/apperror"
	"contact-mailer-backend/pkg/metrics"

	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned by Deliver when SMTP settings are missing.
var ErrNotConfigured = errors.New("email service is not configured")

// Dialer opens one SMTP session per call, sends and closes it.
// *gomail.Dialer upgrades with STARTTLS when the relay offers it; the
// relayAuth set on it fails the session when that upgrade did not happen.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService relays contact notifications through an SMTP relay
type EmailService struct {
	dialer     Dialer
	host       string
	port       int
	fromEmail  string
	toEmail    string
	siteName   string
	configured bool
	log        *slog.Logger
}

type Option func(*EmailService)

// WithDialer replaces the gomail dialer, used by tests.
func WithDialer(d Dialer) Option {
	return func(s *EmailService) {
		s.dialer = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *EmailService) {
		s.log = l
	}
}

// NewEmailService creates a new email service from the SMTP configuration
func NewEmailService(cfg *config.Config, opts ...Option) *EmailService {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	// Set up front so gomail never picks (and stores) a mechanism per dial.
	d.Auth = newRelayAuth(cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	if cfg.SMTPInsecureSkipVerify {
		d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, InsecureSkipVerify: true}
	}

	s := &EmailService{
		dialer:     d,
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		fromEmail:  cfg.SMTPFromEmail,
		toEmail:    cfg.ContactEmailTo,
		siteName:   cfg.SiteName,
		configured: cfg.SMTPConfigured(),
		log:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.configured
}

// Render builds the notification for data addressed from the service mailbox
// to the operator mailbox.
func (s *EmailService) Render(data ContactEmailData, now time.Time) (Notification, error) {
	return Render(data, s.siteName, s.fromEmail, s.toEmail, now)
}

// Deliver hands n to the relay exactly once. Every failure is returned as a
// delivery error; there is no retry.
func (s *EmailService) Deliver(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return apperror.Delivery(err)
	}

	if !s.configured {
		metrics.MailSendFailure.WithLabelValues(s.host).Inc()
		return apperror.Delivery(ErrNotConfigured)
	}

	s.log.Debug("connecting to smtp relay", "host", s.host, "port", s.port)

	start := time.Now()
	err := s.dialer.DialAndSend(buildMessage(n))
	metrics.MailSendDuration.WithLabelValues(s.host).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(s.host).Inc()
		s.log.Error("smtp delivery failed", "host", s.host, "port", s.port, "error", err)
		return apperror.Delivery(fmt.Errorf("failed to send email: %w", err))
	}

	metrics.MailSendSuccess.WithLabelValues(s.host).Inc()
	s.log.Info("email sent", "to", n.To, "reply_to", n.ReplyTo)
	return nil
}

// buildMessage composes a multipart/alternative message, plain text first.
func buildMessage(n Notification) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.From)
	msg.SetHeader("To", n.To)
	msg.SetHeader("Reply-To", n.ReplyTo)
	msg.SetHeader("Subject", n.Subject)
	msg.SetDateHeader("Date", n.SubmittedAt)
	msg.SetBody("text/plain", n.TextBody)
	msg.AddAlternative("text/html", n.HTMLBody)
	return msg
}
