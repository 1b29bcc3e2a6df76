package notify

import (
	"context"
	"log/slog"

	"github.com/example/storefront-service/internal/adapter/mail"
	"github.com/example/storefront-service/internal/domain"
)

const (
	KindEmail   = "email"
	KindPublish = "publish"
)

// SettlementNotifier schedules the confirmation email and the bus message for a settled order.
// Bus may be nil.
type SettlementNotifier struct {
	Dispatcher *Dispatcher
	Mailer     domain.Mailer
	Bus        domain.SettlementPublisher
	ShopURL    string
	Log        *slog.Logger
}

func (n SettlementNotifier) OrderSettled(o domain.Order) {
	if o.CustomerEmail != "" && n.Mailer != nil {
		n.enqueue(o, Job{Kind: KindEmail, Run: func(ctx context.Context) error {
			msg, err := mail.ConfirmationEmail(o, n.ShopURL)
			if err != nil {
				return err
			}
			return n.Mailer.Send(ctx, msg)
		}})
	}
	if n.Bus != nil {
		n.enqueue(o, Job{Kind: KindPublish, Run: func(ctx context.Context) error {
			return n.Bus.PublishSettled(ctx, o)
		}})
	}
}

func (n SettlementNotifier) enqueue(o domain.Order, j Job) {
	if n.Dispatcher.Enqueue(j) {
		return
	}
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn("notify queue full, job dropped", "kind", j.Kind, "order_id", o.ID, "settlement_id", o.SettlementID)
}

var _ domain.SettlementNotifier = SettlementNotifier{}
