// Package mailer sends transactional email through Resend.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ErrNotConfigured is returned when sending without an API key outside dev mode.
var ErrNotConfigured = errors.New("email service not configured (missing RESEND_API_KEY)")

// Mailer sends plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Resend delivers email with the Resend API. In dev mode messages are only logged.
type Resend struct {
	sender emailSender
	from   string
	isDev  bool
}

var _ Mailer = (*Resend)(nil)

// NewResend creates a Resend mailer. Without an API key, or in dev mode, no
// client is created.
func NewResend(apiKey, from string, isDev bool) *Resend {
	m := &Resend{from: from, isDev: isDev}
	if apiKey != "" && !isDev {
		m.sender = resend.NewClient(apiKey).Emails
	}
	return m
}

// Send delivers a single message.
func (m *Resend) Send(ctx context.Context, to, subject, body string) error {
	if m.isDev {
		slog.Info("email sent (dev mode)", "to", to, "subject", subject)
		return nil
	}
	if m.sender == nil {
		return ErrNotConfigured
	}

	resp, err := m.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	slog.Info("email sent", "to", to, "subject", subject, "id", resp.Id)
	return nil
}
