package domain

// NotificationCheckoutCompleted is the only notification type that settles an order.
const NotificationCheckoutCompleted = "checkout.session.completed"

// SessionIDPlaceholder is expanded by the provider to the session id in redirect URLs.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

// Notification is a verified settlement notification.
// CheckoutCompleted is set if and only if Type is NotificationCheckoutCompleted.
type Notification struct {
	ID                string
	Type              string
	CheckoutCompleted *CheckoutCompleted
}

// CheckoutCompleted carries what a completed checkout session reports.
type CheckoutCompleted struct {
	SessionID     string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	CustomerName  string
	Shipping      *ShippingAddress
	Billing       *ShippingAddress
	// Items is the display summary attached at checkout time, carried through unchanged.
	Items []string
}
