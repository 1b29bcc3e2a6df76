package domain

// ResolveAddress picks the address to persist for an order.
// The shipping address wins when it has at least one field, then the billing
// address, then an empty address. Fields are never merged across sources.
func ResolveAddress(shipping, billing *ShippingAddress) ShippingAddress {
	switch {
	case !shipping.IsEmpty():
		return *shipping
	case !billing.IsEmpty():
		return *billing
	default:
		return ShippingAddress{}
	}
}
