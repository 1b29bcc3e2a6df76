package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/storefront-service/internal/domain"
)

// SettlementOutcome says what HandleSettlement did with an acknowledged notification.
type SettlementOutcome string

const (
	SettlementCreated   SettlementOutcome = "created"
	SettlementDuplicate SettlementOutcome = "duplicate"
	SettlementIgnored   SettlementOutcome = "ignored"
)

// HandleSettlement verifies a provider notification, ignores every type but a completed
// checkout, persists the order together with its purchase event and hands the order to
// the notifier. Any returned error means the notification was not processed.
type HandleSettlement struct {
	Verifier domain.NotificationVerifier
	Store    domain.SettlementStore
	Notifier domain.SettlementNotifier
	// PageURL is recorded on purchase events; SessionIDPlaceholder is replaced by the session id.
	PageURL string
	Now     func() time.Time
	Log     *slog.Logger
}

func (uc HandleSettlement) Execute(ctx context.Context, body []byte, signature string) (SettlementOutcome, error) {
	n, err := uc.Verifier.Verify(body, signature)
	if err != nil {
		return "", err
	}
	if n.Type != domain.NotificationCheckoutCompleted {
		uc.logger().Debug("settlement notification ignored", "notification_id", n.ID, "type", n.Type)
		return SettlementIgnored, nil
	}
	if n.CheckoutCompleted == nil {
		return "", fmt.Errorf("%w: %s without session data", domain.ErrInvalidPayload, n.Type)
	}

	order, event, err := uc.build(*n.CheckoutCompleted)
	if err != nil {
		return "", err
	}

	saved, err := uc.Store.SaveSettlement(ctx, order, event)
	if errors.Is(err, domain.ErrDuplicateSettlement) {
		uc.logger().Info("duplicate settlement acknowledged", "settlement_id", order.SettlementID)
		return SettlementDuplicate, nil
	}
	if err != nil {
		return "", fmt.Errorf("save settlement %s: %w", order.SettlementID, err)
	}

	uc.logger().Info("order settled",
		"order_id", saved.ID,
		"settlement_id", saved.SettlementID,
		"amount", saved.TotalAmount.StringFixed(2),
	)
	if uc.Notifier != nil {
		uc.Notifier.OrderSettled(saved)
	}
	return SettlementCreated, nil
}

func (uc HandleSettlement) build(cc domain.CheckoutCompleted) (domain.Order, domain.Event, error) {
	now := uc.now()
	items := cc.Items
	if items == nil {
		items = []string{}
	}
	order := domain.Order{
		SettlementID:    cc.SessionID,
		CustomerEmail:   cc.CustomerEmail,
		CustomerName:    cc.CustomerName,
		TotalAmount:     domain.MajorUnits(cc.AmountTotal),
		Status:          domain.OrderStatusPaid,
		CreatedAt:       now,
		Items:           items,
		ShippingAddress: domain.ResolveAddress(cc.Shipping, cc.Billing),
	}

	meta, err := domain.NewMetadata(map[string]any{
		"settlement_id": cc.SessionID,
		"amount":        order.TotalAmount.InexactFloat64(),
		"currency":      cc.Currency,
		"items":         items,
	})
	if err != nil {
		return domain.Order{}, domain.Event{}, fmt.Errorf("encode purchase metadata: %w", err)
	}
	user := cc.CustomerEmail
	if user == "" {
		user = domain.GuestUser
	}
	event := domain.Event{
		Type:      domain.EventPurchase,
		UserID:    user,
		PageURL:   strings.ReplaceAll(uc.PageURL, domain.SessionIDPlaceholder, cc.SessionID),
		Metadata:  meta,
		CreatedAt: now,
	}
	return order, event, nil
}

func (uc HandleSettlement) now() time.Time {
	if uc.Now != nil {
		return uc.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc HandleSettlement) logger() *slog.Logger {
	if uc.Log != nil {
		return uc.Log
	}
	return slog.Default()
}
