package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/lazypower/stayintouch/internal/config"
)

// mailSender is the part of *mail.Client used here.
type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Email sends plain-text mail over SMTP with mandatory STARTTLS.
type Email struct {
	cfg    config.EmailConfig
	sender mailSender
}

// NewEmail builds the SMTP channel. A config missing server, username or
// recipient yields a channel whose every send fails with ErrNotConfigured.
func NewEmail(cfg config.EmailConfig) (*Email, error) {
	e := &Email{cfg: cfg}
	if !cfg.Enabled() {
		return e, nil
	}

	client, err := mail.NewClient(cfg.SMTPServer,
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	e.sender = client
	return e, nil
}

func (e *Email) Name() string { return "email" }

// Notify sends msg from the configured username to the configured recipient.
func (e *Email) Notify(ctx context.Context, msg Message) Outcome {
	if e.sender == nil {
		return failed(e.Name(), ErrNotConfigured)
	}

	m := mail.NewMsg()
	if err := m.From(e.cfg.Username); err != nil {
		return failed(e.Name(), fmt.Errorf("set from: %w", err))
	}
	if err := m.To(e.cfg.To); err != nil {
		return failed(e.Name(), fmt.Errorf("set to: %w", err))
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := e.sender.DialAndSendWithContext(ctx, m); err != nil {
		return failed(e.Name(), fmt.Errorf("send mail: %w", err))
	}
	return sent(e.Name(), e.cfg.To)
}
