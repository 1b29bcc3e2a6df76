package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Known event types. Ingestion accepts any non-empty type.
const (
	EventPageView  = "page_view"
	EventViewItem  = "view_item"
	EventAddToCart = "add_to_cart"
	EventPurchase  = "purchase"
)

// GuestUser marks events whose originator is unknown.
const GuestUser = "guest"

// Event — append-only analytics/lifecycle record.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	Type      string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	PageURL   string    `json:"page_url"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Metadata is an opaque JSON object. The zero value encodes as {}.
type Metadata json.RawMessage

var emptyObject = []byte("{}")

// NewMetadata encodes v as metadata.
func NewMetadata(v any) (Metadata, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Metadata(b), nil
}

// ParseMetadata returns raw as metadata when it holds a JSON object and {} otherwise.
func ParseMetadata(raw []byte) Metadata {
	if !isJSONObject(raw) {
		return Metadata(emptyObject)
	}
	return Metadata(append([]byte(nil), raw...))
}

// Valid reports whether m is empty or a JSON object.
func (m Metadata) Valid() bool {
	return len(m) == 0 || isJSONObject(m)
}

// Bytes returns the stored JSON text, {} when empty.
func (m Metadata) Bytes() []byte {
	if len(m) == 0 {
		return emptyObject
	}
	return m
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	return m.Bytes(), nil
}

func (m *Metadata) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = nil
		return nil
	}
	*m = append((*m)[:0], b...)
	return nil
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}
