package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-service/internal/domain"
)

func TestRecordEvent(t *testing.T) {
	store := &mockEventStore{}
	uc := RecordEvent{Store: store, Now: func() time.Time { return fixedNow }}

	err := uc.Execute(context.Background(), domain.Event{Type: " add_to_cart ", PageURL: "/product/1", Metadata: domain.Metadata(`{"name":"Sony"}`)})
	require.NoError(t, err)
	require.Len(t, store.events, 1)
	ev := store.events[0]
	assert.Equal(t, domain.EventAddToCart, ev.Type)
	assert.Equal(t, domain.GuestUser, ev.UserID)
	assert.Equal(t, fixedNow, ev.CreatedAt)
}

func TestRecordEvent_Validation(t *testing.T) {
	store := &mockEventStore{}
	uc := RecordEvent{Store: store}

	require.ErrorIs(t, uc.Execute(context.Background(), domain.Event{}), domain.ErrValidation)
	require.ErrorIs(t, uc.Execute(context.Background(), domain.Event{Type: "page_view", Metadata: domain.Metadata(`[]`)}), domain.ErrValidation)
	assert.Empty(t, store.events)
}

func TestListRecentOrders_ClampsLimit(t *testing.T) {
	reader := &mockOrderReader{}
	uc := ListRecentOrders{Orders: reader}

	_, _ = uc.Execute(context.Background(), 0)
	assert.Equal(t, DefaultOrdersLimit, reader.lastLimit)
	_, _ = uc.Execute(context.Background(), 10_000)
	assert.Equal(t, MaxOrdersLimit, reader.lastLimit)
	_, _ = uc.Execute(context.Background(), 7)
	assert.Equal(t, 7, reader.lastLimit)
}
