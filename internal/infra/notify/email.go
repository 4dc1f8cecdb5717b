package notify

import (
	"context"
	"fmt"

	"domain_expiry_notifier/internal/domain/alert"
	"domain_expiry_notifier/internal/domain/user"
	"domain_expiry_notifier/internal/infra/mail"
)

// EmailChannel renders a human-readable alert and hands it to the
// mail transport, applying a per-user SMTP override when present.
type EmailChannel struct {
	sender mail.Sender
}

func NewEmailChannel(sender mail.Sender) *EmailChannel {
	return &EmailChannel{sender: sender}
}

func (e *EmailChannel) Send(ctx context.Context, recipient string, override *user.SMTPOverride, payload alert.Payload) error {
	subject := fmt.Sprintf("Domain %s expires in %d days", payload.Domain, payload.DaysLeft)
	body := renderBody(payload)
	return e.sender.Send(ctx, mail.Message{
		To:       recipient,
		Subject:  subject,
		Body:     body,
		Override: override,
	})
}

func renderBody(p alert.Payload) string {
	body := fmt.Sprintf(
		"Domain registration expiry alert\n\nDomain: %s\nExpires: %s\nDays left: %d\nAlert threshold: %d days\nChecked at: %s\n",
		p.Domain, p.ExpiresAt, p.DaysLeft, p.ThresholdDays, p.CheckedAt.Format("2006-01-02 15:04:05 MST"),
	)
	if len(p.Accounts) > 0 {
		body += "\nReachable through:\n"
		for _, a := range p.Accounts {
			body += fmt.Sprintf("- %s (%s)\n", a.CredentialName, a.Provider)
		}
	}
	return body
}
