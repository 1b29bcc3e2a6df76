package stripe

import (
	"encoding/json"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v76"

	"github.com/example/storefront-service/internal/domain"
)

// ParseNotification decodes a provider event. Only checkout.session.completed events
// have their session extracted; other types come back with just ID and Type.
func ParseNotification(body []byte) (domain.Notification, error) {
	var ev stripeapi.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if ev.Type == "" {
		return domain.Notification{}, fmt.Errorf("%w: event type is missing", domain.ErrInvalidPayload)
	}
	n := domain.Notification{ID: ev.ID, Type: string(ev.Type)}
	if n.Type != domain.NotificationCheckoutCompleted {
		return n, nil
	}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return domain.Notification{}, fmt.Errorf("%w: event data is missing", domain.ErrInvalidPayload)
	}

	var s stripeapi.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: checkout session: %v", domain.ErrInvalidPayload, err)
	}
	if s.ID == "" {
		return domain.Notification{}, fmt.Errorf("%w: checkout session id is missing", domain.ErrInvalidPayload)
	}
	if v, ok := ev.Data.Object["amount_total"]; !ok || v == nil {
		return domain.Notification{}, fmt.Errorf("%w: amount_total is missing", domain.ErrInvalidPayload)
	}

	cc := &domain.CheckoutCompleted{
		SessionID:     s.ID,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: s.CustomerEmail,
		Items:         domain.DecodeItemsSummary(s.Metadata["items"]),
	}
	if d := s.CustomerDetails; d != nil {
		if cc.CustomerEmail == "" {
			cc.CustomerEmail = d.Email
		}
		cc.CustomerName = d.Name
		cc.Billing = toAddress(d.Address)
	}
	if s.ShippingDetails != nil {
		cc.Shipping = toAddress(s.ShippingDetails.Address)
	}
	n.CheckoutCompleted = cc
	return n, nil
}

func toAddress(a *stripeapi.Address) *domain.ShippingAddress {
	if a == nil {
		return nil
	}
	return &domain.ShippingAddress{
		Line1:      a.Line1,
		PostalCode: a.PostalCode,
		City:       a.City,
		Country:    a.Country,
	}
}
