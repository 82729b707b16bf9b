package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/ca-srg/propertyalert/internal/config"
)

// Mailer delivers HTML reports over SMTP using STARTTLS and plain auth,
// matching the mailbox providers the criteria sheet owners use.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
}

// New creates a Mailer from SMTP configuration. Connection and auth are
// validated lazily on the first send, not here.
func New(cfg *config.Config) (*Mailer, error) {
	if err := cfg.ValidateSMTP(); err != nil {
		return nil, err
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUsername),
		mail.WithPassword(cfg.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.EmailFrom,
		to:     cfg.EmailTo,
	}, nil
}

// Send delivers one HTML report. A failure is returned with its reason and
// never swallowed; the caller decides whether the run continues.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.from, err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", m.to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", m.to, err)
	}
	return nil
}
