package usecase

import (
	"context"

	"github.com/example/storefront-service/internal/domain"
)

const (
	DefaultOrdersLimit = 50
	MaxOrdersLimit     = 200
)

// ListRecentOrders — последние оплаченные заказы для админки.
type ListRecentOrders struct {
	Orders domain.OrderReader
}

func (uc ListRecentOrders) Execute(ctx context.Context, limit int) ([]domain.Order, error) {
	switch {
	case limit <= 0:
		limit = DefaultOrdersLimit
	case limit > MaxOrdersLimit:
		limit = MaxOrdersLimit
	}
	return uc.Orders.ListRecentOrders(ctx, limit)
}
