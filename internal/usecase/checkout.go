package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/storefront-service/internal/domain"
)

// MaxSummaryLen is the provider's limit for a single metadata value.
const MaxSummaryLen = 500

// MaxCartLines is the provider's limit for line items in one session.
const MaxCartLines = 100

// StartCheckout — открыть платёжную сессию для корзины и вернуть URL страницы оплаты.
// Каждая строка корзины оплачивается как цена за единицу, умноженная на количество.
type StartCheckout struct {
	Payments         domain.PaymentProvider
	Currency         string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

func (uc StartCheckout) Execute(ctx context.Context, cart []domain.CartItem) (string, error) {
	req, err := uc.BuildRequest(cart)
	if err != nil {
		return "", err
	}
	return uc.Payments.CreateCheckoutSession(ctx, req)
}

// BuildRequest validates the cart and maps it to a provider session request.
func (uc StartCheckout) BuildRequest(cart []domain.CartItem) (domain.SessionRequest, error) {
	if len(cart) == 0 {
		return domain.SessionRequest{}, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}
	if len(cart) > MaxCartLines {
		return domain.SessionRequest{}, fmt.Errorf("%w: cart has %d lines, at most %d allowed", domain.ErrValidation, len(cart), MaxCartLines)
	}
	lines := make([]domain.LineEntry, 0, len(cart))
	summary := make([]string, 0, len(cart))
	for i, it := range cart {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return domain.SessionRequest{}, fmt.Errorf("%w: items[%d].name is required", domain.ErrValidation, i)
		}
		if !it.Price.IsPositive() {
			return domain.SessionRequest{}, fmt.Errorf("%w: items[%d].price must be positive", domain.ErrValidation, i)
		}
		if it.Quantity < 1 {
			return domain.SessionRequest{}, fmt.Errorf("%w: items[%d].quantity must be at least 1", domain.ErrValidation, i)
		}
		lines = append(lines, domain.LineEntry{
			Name:       name,
			UnitAmount: domain.MinorUnits(it.Price),
			Quantity:   int64(it.Quantity),
		})
		summary = append(summary, fmt.Sprintf("%s x%d - %s %s", name, it.Quantity, it.Price.StringFixed(2), strings.ToUpper(uc.Currency)))
	}
	return domain.SessionRequest{
		Currency:         uc.Currency,
		LineItems:        lines,
		ItemsSummary:     domain.EncodeItemsSummary(summary, MaxSummaryLen),
		SuccessURL:       uc.SuccessURL,
		CancelURL:        uc.CancelURL,
		AllowedCountries: uc.AllowedCountries,
	}, nil
}
