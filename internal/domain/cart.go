package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a client cart.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LineEntry is one billed line of a checkout session.
type LineEntry struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionRequest is what the payment provider needs to open a hosted checkout page.
type SessionRequest struct {
	Currency         string
	LineItems        []LineEntry
	ItemsSummary     string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

// EncodeItemsSummary encodes items as a JSON array no longer than limit bytes.
// Items that do not fit are replaced by a trailing "+N more" entry.
func EncodeItemsSummary(items []string, limit int) string {
	enc := make([][]byte, len(items))
	// sizes[k] - длина массива из первых k элементов без скобок
	sizes := make([]int, len(items)+1)
	for i, it := range items {
		enc[i], _ = json.Marshal(it)
		sizes[i+1] = sizes[i] + len(enc[i])
		if i > 0 {
			sizes[i+1]++
		}
	}
	for keep := len(items); keep >= 0; keep-- {
		size := 2 + sizes[keep]
		var more []byte
		if dropped := len(items) - keep; dropped > 0 {
			more, _ = json.Marshal(fmt.Sprintf("+%d more", dropped))
			size += len(more)
			if keep > 0 {
				size++
			}
		}
		if size > limit {
			continue
		}
		var b strings.Builder
		b.Grow(size)
		b.WriteByte('[')
		for i := 0; i < keep; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			b.Write(enc[i])
		}
		if more != nil {
			if keep > 0 {
				b.WriteByte(',')
			}
			b.Write(more)
		}
		b.WriteByte(']')
		return b.String()
	}
	return "[]"
}

// DecodeItemsSummary parses a summary written by EncodeItemsSummary; anything else yields nil.
func DecodeItemsSummary(s string) []string {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}
