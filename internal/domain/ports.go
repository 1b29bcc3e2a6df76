package domain

import "context"

// SettlementStore persists an order and its purchase event in one unit.
// It returns ErrDuplicateSettlement, and writes nothing, when the settlement id is already stored.
type SettlementStore interface {
	SaveSettlement(ctx context.Context, o Order, e Event) (Order, error)
}

// OrderReader — порт чтения заказов для админки.
type OrderReader interface {
	ListRecentOrders(ctx context.Context, limit int) ([]Order, error)
}

// EventStore appends analytics events.
type EventStore interface {
	InsertEvent(ctx context.Context, e Event) error
}

// ProductRepository reads the catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
}

// ProductCache — порт быстрого доступа к каталогу (кэш).
type ProductCache interface {
	Get(ctx context.Context, id int64) (Product, bool)
	Set(ctx context.Context, p Product)
}

// NotificationVerifier turns a raw provider callback into a Notification.
type NotificationVerifier interface {
	Verify(body []byte, signature string) (Notification, error)
}

// PaymentProvider opens hosted checkout sessions and returns their URL.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (string, error)
}

// SettlementNotifier receives committed orders for out-of-band follow-up.
// Implementations must not block and must not report failures to the caller.
type SettlementNotifier interface {
	OrderSettled(o Order)
}

// Email is a rendered outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends one email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// SettlementPublisher announces settled orders on the message bus.
type SettlementPublisher interface {
	PublishSettled(ctx context.Context, o Order) error
}
