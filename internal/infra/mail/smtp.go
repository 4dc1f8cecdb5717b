// Package mail is the SMTP transport behind the email channel.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"domain_expiry_notifier/internal/domain/user"
)

// Message is one outbound mail. Override, when set, replaces the
// process-wide SMTP defaults for this send only.
type Message struct {
	To       string
	Subject  string
	Body     string
	Override *user.SMTPOverride
}

// Sender delivers a message or errors; there is no partial success.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Defaults are the process-wide SMTP settings from config.
type Defaults struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type SMTPSender struct {
	defaults Defaults
}

func NewSMTPSender(defaults Defaults) *SMTPSender {
	return &SMTPSender{defaults: defaults}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	host, port := s.defaults.Host, s.defaults.Port
	smtpUser, pass, from := s.defaults.User, s.defaults.Pass, s.defaults.From
	if o := msg.Override; o != nil {
		host, port = o.Host, o.Port
		smtpUser, pass = o.User, o.Pass
		if o.From != "" {
			from = o.From
		}
	}
	if host == "" || from == "" || msg.To == "" {
		return fmt.Errorf("SMTP transport not configured")
	}

	var auth smtp.Auth
	if smtpUser != "" {
		auth = smtp.PlainAuth("", smtpUser, pass, host)
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, msg.To, msg.Subject, msg.Body,
	))

	addr := fmt.Sprintf("%s:%d", host, port)
	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}
