package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPaid is the only status a settlement ever writes.
const OrderStatusPaid = "paid"

// Order — a settled purchase, created once per processed settlement notification.
type Order struct {
	ID              int64
	SettlementID    string
	CustomerEmail   string
	CustomerName    string
	TotalAmount     decimal.Decimal
	Status          string
	CreatedAt       time.Time
	Items           []string
	ShippingAddress ShippingAddress
}

// ShippingAddress is embedded on Order as JSON; any subset of fields may be absent.
type ShippingAddress struct {
	Line1      string `json:"line1,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// IsEmpty reports whether a is absent or carries no field at all.
func (a *ShippingAddress) IsEmpty() bool {
	return a == nil || *a == ShippingAddress{}
}

// MajorUnits converts a provider amount in minor units (cents) into a decimal amount.
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// MinorUnits converts a decimal price into minor units, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
