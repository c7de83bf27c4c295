// Package mail delivers transactional email. The SMTP sender talks to a real
// relay; the log sender stands in for it in development, where codes land in
// the service log instead of an inbox.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"ration-shop-go/internal/config"
	"ration-shop-go/pkg/logger"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender picks an SMTP sender when one is configured, a log sender
// otherwise.
func NewSender(cfg config.SMTPConfig, log logger.Logger) Sender {
	if cfg.Enabled && cfg.Host != "" {
		return &SMTPSender{cfg: cfg}
	}
	return &LogSender{log: log}
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, body)

	addr := s.cfg.Host + ":" + s.cfg.Port
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

type LogSender struct {
	log logger.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info("mail: delivery skipped, smtp disabled", "to", to, "subject", subject, "body", body)
	return nil
}
