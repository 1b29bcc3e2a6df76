package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/example/storefront-service/internal/domain"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer delivers email through the Resend API.
type ResendMailer struct {
	From   string
	Log    *slog.Logger
	emails emailSender
}

func NewResendMailer(apiKey, from string, log *slog.Logger) *ResendMailer {
	if log == nil {
		log = slog.Default()
	}
	return &ResendMailer{From: from, Log: log, emails: resend.NewClient(apiKey).Emails}
}

func (m *ResendMailer) Send(ctx context.Context, msg domain.Email) error {
	if msg.To == "" {
		return fmt.Errorf("%w: email has no recipient", domain.ErrValidation)
	}
	resp, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	m.Log.Debug("email sent", "email_id", resp.Id, "subject", msg.Subject)
	return nil
}

// LogMailer stands in when no email API key is configured.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) Send(_ context.Context, msg domain.Email) error {
	m.Log.Info("email not sent, mailer disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ domain.Mailer = (*ResendMailer)(nil)
	_ domain.Mailer = LogMailer{}
)
