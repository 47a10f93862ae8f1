// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"textok/internal/config"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender builds a sender from the SMTP settings.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) message(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Send dials the relay once per message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.message(to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
