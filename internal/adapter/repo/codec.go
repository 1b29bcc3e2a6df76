package repo

import (
	"encoding/json"
	"fmt"

	"github.com/example/storefront-service/internal/domain"
)

func encodeOrderJSON(o domain.Order) (items, address string, err error) {
	list := o.Items
	if list == nil {
		list = []string{}
	}
	ib, err := json.Marshal(list)
	if err != nil {
		return "", "", fmt.Errorf("encode items: %w", err)
	}
	ab, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return "", "", fmt.Errorf("encode address: %w", err)
	}
	return string(ib), string(ab), nil
}

// decodeItems tolerates rows written by older snapshots; unreadable data yields an empty list.
func decodeItems(raw []byte) []string {
	items := []string{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

func decodeAddress(raw []byte) domain.ShippingAddress {
	var a domain.ShippingAddress
	if len(raw) == 0 {
		return a
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.ShippingAddress{}
	}
	return a
}
