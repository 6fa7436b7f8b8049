package notifications

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/config"
)

// AddressResolver maps a user to their email address.
type AddressResolver interface {
	EmailFor(ctx context.Context, notice Notice) (string, error)
}

// EmailSink delivers notices over SMTP when email is configured.
type EmailSink struct {
	cfg      config.EmailConfig
	resolver AddressResolver
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSink builds the SMTP sink; returns nil when email is disabled so
// callers can skip wiring it.
func NewEmailSink(cfg config.EmailConfig, resolver AddressResolver) *EmailSink {
	if !cfg.Enabled() || resolver == nil {
		return nil
	}
	return &EmailSink{cfg: cfg, resolver: resolver, send: smtp.SendMail}
}

func (s *EmailSink) Deliver(ctx context.Context, notice Notice) error {
	to, err := s.resolver.EmailFor(ctx, notice)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if to == "" {
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.DefaultFrom, to, notice.Title, notice.Message)

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := s.send(addr, auth, s.cfg.DefaultFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
