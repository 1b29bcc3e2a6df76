package stripe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/example/storefront-service/internal/domain"
)

// SignedVerifier accepts only notifications signed with the shared webhook secret.
type SignedVerifier struct {
	Secret    string
	Tolerance time.Duration
}

func (v SignedVerifier) Verify(body []byte, signature string) (domain.Notification, error) {
	tol := v.Tolerance
	if tol <= 0 {
		tol = webhook.DefaultTolerance
	}
	if err := webhook.ValidatePayloadWithTolerance(body, signature, v.Secret, tol); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return ParseNotification(body)
}

// TrustOnFirstUseVerifier parses notifications without checking any signature.
// Only for local development; every accepted notification is logged at WARN.
type TrustOnFirstUseVerifier struct {
	Log *slog.Logger
}

func (v TrustOnFirstUseVerifier) Verify(body []byte, _ string) (domain.Notification, error) {
	n, err := ParseNotification(body)
	if err != nil {
		return domain.Notification{}, err
	}
	v.Log.Warn("unverified payment notification accepted", "notification_id", n.ID, "type", n.Type)
	return n, nil
}

// NewVerifier picks the verification strategy once, at startup.
// Without a secret the unverified mode must be enabled explicitly.
func NewVerifier(secret string, allowUnverified bool, log *slog.Logger) (domain.NotificationVerifier, error) {
	if log == nil {
		log = slog.Default()
	}
	if secret != "" {
		return SignedVerifier{Secret: secret}, nil
	}
	if !allowUnverified {
		return nil, fmt.Errorf("%w: webhook secret is not set and unverified webhooks are not allowed", domain.ErrConfiguration)
	}
	log.Warn("webhook signature verification is DISABLED")
	return TrustOnFirstUseVerifier{Log: log}, nil
}
