package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/storefront-service/internal/domain"
)

const maxEventTypeLen = 64

// RecordEvent appends one analytics event.
type RecordEvent struct {
	Store domain.EventStore
	Now   func() time.Time
}

func (uc RecordEvent) Execute(ctx context.Context, ev domain.Event) error {
	ev.Type = strings.TrimSpace(ev.Type)
	if ev.Type == "" {
		return fmt.Errorf("%w: event_type is required", domain.ErrValidation)
	}
	if len(ev.Type) > maxEventTypeLen {
		return fmt.Errorf("%w: event_type longer than %d", domain.ErrValidation, maxEventTypeLen)
	}
	if !ev.Metadata.Valid() {
		return fmt.Errorf("%w: metadata must be a JSON object", domain.ErrValidation)
	}
	if ev.UserID == "" {
		ev.UserID = domain.GuestUser
	}
	ev.CreatedAt = uc.now()
	return uc.Store.InsertEvent(ctx, ev)
}

func (uc RecordEvent) now() time.Time {
	if uc.Now != nil {
		return uc.Now().UTC()
	}
	return time.Now().UTC()
}
