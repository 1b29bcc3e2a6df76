package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-service/internal/domain"
)

func newCheckout(p domain.PaymentProvider) StartCheckout {
	return StartCheckout{
		Payments:         p,
		Currency:         "eur",
		SuccessURL:       "https://shop.example.test/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        "https://shop.example.test/cancel",
		AllowedCountries: []string{"FR", "BE"},
	}
}

func TestStartCheckout_LineItemsInMinorUnits(t *testing.T) {
	payments := &mockPayments{}
	uc := newCheckout(payments)

	url, err := uc.Execute(context.Background(), []domain.CartItem{
		{ID: 1, Name: "A", Price: decimal.NewFromInt(10), Quantity: 2},
		{ID: 2, Name: "B", Price: decimal.NewFromInt(5), Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.test/session", url)

	req := payments.last
	require.Len(t, req.LineItems, 2)
	assert.Equal(t, domain.LineEntry{Name: "A", UnitAmount: 1000, Quantity: 2}, req.LineItems[0])
	assert.Equal(t, domain.LineEntry{Name: "B", UnitAmount: 500, Quantity: 1}, req.LineItems[1])
	assert.Equal(t, []string{"A x2 - 10.00 EUR", "B x1 - 5.00 EUR"}, domain.DecodeItemsSummary(req.ItemsSummary))
	assert.Equal(t, []string{"FR", "BE"}, req.AllowedCountries)
	assert.Equal(t, "eur", req.Currency)
}

func TestStartCheckout_RejectsInvalidCarts(t *testing.T) {
	tests := []struct {
		name string
		cart []domain.CartItem
	}{
		{name: "empty", cart: nil},
		{name: "no name", cart: []domain.CartItem{{Price: decimal.NewFromInt(1), Quantity: 1}}},
		{name: "zero price", cart: []domain.CartItem{{Name: "A", Quantity: 1}}},
		{name: "zero quantity", cart: []domain.CartItem{{Name: "A", Price: decimal.NewFromInt(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &mockPayments{}
			_, err := newCheckout(payments).Execute(context.Background(), tt.cart)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, payments.last.LineItems)
		})
	}
}

func TestStartCheckout_RejectsOversizedCart(t *testing.T) {
	cart := make([]domain.CartItem, MaxCartLines+1)
	for i := range cart {
		cart[i] = domain.CartItem{Name: fmt.Sprintf("i%d", i), Price: decimal.NewFromInt(1), Quantity: 1}
	}
	payments := &mockPayments{}
	_, err := newCheckout(payments).Execute(context.Background(), cart)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, payments.last.LineItems)

	req, err := newCheckout(payments).BuildRequest(cart[:MaxCartLines])
	require.NoError(t, err)
	assert.Len(t, req.LineItems, MaxCartLines)
	assert.LessOrEqual(t, len(req.ItemsSummary), MaxSummaryLen)
}

func TestStartCheckout_ProviderErrorPropagates(t *testing.T) {
	payments := &mockPayments{CreateFunc: func(context.Context, domain.SessionRequest) (string, error) {
		return "", domain.ErrConfiguration
	}}
	_, err := newCheckout(payments).Execute(context.Background(), []domain.CartItem{{Name: "A", Price: decimal.NewFromInt(1), Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEncodeItemsSummary_CapsLength(t *testing.T) {
	items := make([]string, 40)
	for i := range items {
		items[i] = fmt.Sprintf("Product number %02d x1 - 19.90 EUR", i)
	}
	s := domain.EncodeItemsSummary(items, MaxSummaryLen)
	assert.LessOrEqual(t, len(s), MaxSummaryLen)

	decoded := domain.DecodeItemsSummary(s)
	require.NotEmpty(t, decoded)
	last := decoded[len(decoded)-1]
	assert.True(t, strings.HasPrefix(last, "+"), last)
	assert.Equal(t, fmt.Sprintf("+%d more", len(items)-(len(decoded)-1)), last)
}
