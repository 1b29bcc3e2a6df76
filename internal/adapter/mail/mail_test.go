package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-service/internal/domain"
)

type fakeEmails struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeEmails) SendWithContext(_ context.Context, p *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "em_1"}, nil
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:            42,
		CustomerEmail: "ada@example.com",
		CustomerName:  "Ada <script>",
		TotalAmount:   decimal.RequireFromString("1299"),
		Items:         []string{"iPhone 15 Pro x1 - 1299.00 EUR"},
		ShippingAddress: domain.ShippingAddress{
			Line1: "2 Shipping Rd", PostalCode: "1000", City: "Brussels", Country: "BE",
		},
	}
}

func TestConfirmationEmail(t *testing.T) {
	msg, err := ConfirmationEmail(sampleOrder(), "https://shop.test")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "Order #42 confirmed", msg.Subject)
	assert.Contains(t, msg.HTML, "1299.00")
	assert.Contains(t, msg.HTML, "iPhone 15 Pro x1")
	assert.Contains(t, msg.HTML, "Brussels")
	assert.Contains(t, msg.HTML, `href="https://shop.test"`)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestConfirmationEmail_NoAddress(t *testing.T) {
	o := sampleOrder()
	o.ShippingAddress = domain.ShippingAddress{}
	msg, err := ConfirmationEmail(o, "")
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "Shipping to")
}

func TestResendMailer_Send(t *testing.T) {
	f := &fakeEmails{}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := &ResendMailer{From: "shop@example.com", Log: log, emails: f}

	require.NoError(t, m.Send(context.Background(), domain.Email{To: "ada@example.com", Subject: "s", HTML: "<p>x</p>"}))
	assert.Equal(t, "shop@example.com", f.got.From)
	assert.Equal(t, []string{"ada@example.com"}, f.got.To)
	assert.Equal(t, "<p>x</p>", f.got.Html)
	assert.Contains(t, buf.String(), "email sent")
	assert.Contains(t, buf.String(), "email_id=em_1")

	assert.ErrorIs(t, m.Send(context.Background(), domain.Email{}), domain.ErrValidation)

	f.err = errors.New("rate limited")
	assert.Error(t, m.Send(context.Background(), domain.Email{To: "a@b.c"}))
}

func TestNewResendMailer_DefaultLogger(t *testing.T) {
	m := NewResendMailer("re_test", "shop@example.com", nil)
	assert.NotNil(t, m.Log)
	assert.Equal(t, "shop@example.com", m.From)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{Log: slog.New(slog.NewTextHandler(&buf, nil))}
	require.NoError(t, m.Send(context.Background(), domain.Email{To: "a@b.c", Subject: "hi"}))
	assert.Contains(t, buf.String(), "mailer disabled")
}
