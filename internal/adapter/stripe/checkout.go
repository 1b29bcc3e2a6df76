package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/example/storefront-service/internal/domain"
)

type sessionCreator interface {
	New(params *stripeapi.CheckoutSessionParams) (*stripeapi.CheckoutSession, error)
}

// CheckoutClient opens hosted checkout sessions.
type CheckoutClient struct {
	sessions sessionCreator
}

// NewCheckoutClient returns a client that fails every call with ErrConfiguration when key is empty,
// so the service can still start and serve the rest of the API.
func NewCheckoutClient(key string) *CheckoutClient {
	if key == "" {
		return &CheckoutClient{}
	}
	return &CheckoutClient{sessions: client.New(key, nil).CheckoutSessions}
}

func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (string, error) {
	if c.sessions == nil {
		return "", fmt.Errorf("%w: payment provider key is not set", domain.ErrConfiguration)
	}
	s, err := c.sessions.New(sessionParams(ctx, req))
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if s.URL == "" {
		return "", fmt.Errorf("create checkout session %s: provider returned no url", s.ID)
	}
	return s.URL, nil
}

func sessionParams(ctx context.Context, req domain.SessionRequest) *stripeapi.CheckoutSessionParams {
	lines := make([]*stripeapi.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lines = append(lines, &stripeapi.CheckoutSessionLineItemParams{
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency: stripeapi.String(req.Currency),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(li.Name),
				},
				UnitAmount: stripeapi.Int64(li.UnitAmount),
			},
			Quantity: stripeapi.Int64(li.Quantity),
		})
	}
	p := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems:  lines,
		SuccessURL: stripeapi.String(req.SuccessURL),
		CancelURL:  stripeapi.String(req.CancelURL),
	}
	if len(req.AllowedCountries) > 0 {
		p.ShippingAddressCollection = &stripeapi.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripeapi.StringSlice(req.AllowedCountries),
		}
	}
	p.Context = ctx
	p.AddMetadata("items", req.ItemsSummary)
	return p
}

var (
	_ domain.PaymentProvider      = (*CheckoutClient)(nil)
	_ domain.NotificationVerifier = SignedVerifier{}
	_ domain.NotificationVerifier = TrustOnFirstUseVerifier{}
)
