package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/ygyuri/foodbank-management-system/config"
)

// Dialer is the part of gomail.Dialer the mailer needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends HTML mail through an SMTP relay.
type SMTPMailer struct {
	from    string
	dialer  Dialer
	timeout time.Duration
	logger  *zap.Logger
}

func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	m := NewWithDialer(cfg.From, d, logger)
	m.timeout = cfg.Timeout
	return m
}

func NewWithDialer(from string, d Dialer, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{from: from, dialer: d, logger: logger}
}

// Send builds and delivers one message. gomail takes no context, so the exchange
// runs in its own goroutine and Send stops waiting when ctx or the mailer
// timeout expires; the abandoned exchange ends with the dial or server timeout.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("send mail: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", to, ctx.Err())
	}

	m.logger.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// Noop drops every message. Used when email notifications are disabled.
type Noop struct{}

func (Noop) Send(context.Context, string, string, string) error { return nil }
