package usecase

import (
	"context"
	"sync"

	"github.com/example/storefront-service/internal/domain"
)

type mockVerifier struct {
	VerifyFunc func(body []byte, signature string) (domain.Notification, error)
}

func (m *mockVerifier) Verify(body []byte, signature string) (domain.Notification, error) {
	return m.VerifyFunc(body, signature)
}

type mockSettlementStore struct {
	SaveFunc func(ctx context.Context, o domain.Order, e domain.Event) (domain.Order, error)
	calls    int
}

func (m *mockSettlementStore) SaveSettlement(ctx context.Context, o domain.Order, e domain.Event) (domain.Order, error) {
	m.calls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, o, e)
	}
	o.ID = int64(m.calls)
	return o, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (n *recordingNotifier) OrderSettled(o domain.Order) {
	n.mu.Lock()
	n.orders = append(n.orders, o)
	n.mu.Unlock()
}

type mockPayments struct {
	CreateFunc func(ctx context.Context, req domain.SessionRequest) (string, error)
	last       domain.SessionRequest
}

func (m *mockPayments) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (string, error) {
	m.last = req
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return "https://pay.example.test/session", nil
}

type mockProductRepo struct {
	products map[int64]domain.Product
	listErr  error
	gets     int
}

func (m *mockProductRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	m.gets++
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

type mapCache map[int64]domain.Product

func (c mapCache) Get(ctx context.Context, id int64) (domain.Product, bool) {
	p, ok := c[id]
	return p, ok
}

func (c mapCache) Set(ctx context.Context, p domain.Product) { c[p.ID] = p }

type mockEventStore struct {
	events []domain.Event
	err    error
}

func (m *mockEventStore) InsertEvent(ctx context.Context, e domain.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

type mockOrderReader struct {
	lastLimit int
}

func (m *mockOrderReader) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	m.lastLimit = limit
	return nil, nil
}
