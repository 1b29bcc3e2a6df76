package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"

	"github.com/example/storefront-service/internal/domain"
)

// SettledMessage is what subscribers of the settled-orders subject receive.
type SettledMessage struct {
	OrderID      int64     `json:"order_id"`
	SettlementID string    `json:"settlement_id"`
	Amount       string    `json:"amount"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type conn interface {
	Publish(subject string, data []byte) error
	Close() error
}

type Publisher struct {
	Subject string
	sc      conn
}

// Connect opens a streaming connection. An empty clientID gets a unique one.
func Connect(clusterID, clientID, url, subject string) (*Publisher, error) {
	if clientID == "" {
		clientID = fmt.Sprintf("storefront-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, fmt.Errorf("stan connect: %w", err)
	}
	return &Publisher{Subject: subject, sc: sc}, nil
}

// PublishSettled sends a synchronous, acknowledged message for the order.
func (p *Publisher) PublishSettled(ctx context.Context, o domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(SettledMessage{
		OrderID:      o.ID,
		SettlementID: o.SettlementID,
		Amount:       o.TotalAmount.StringFixed(2),
		Email:        o.CustomerEmail,
		CreatedAt:    o.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}
	if err := p.sc.Publish(p.Subject, b); err != nil {
		return fmt.Errorf("publish %s: %w", p.Subject, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.sc.Close()
}

var _ domain.SettlementPublisher = (*Publisher)(nil)
