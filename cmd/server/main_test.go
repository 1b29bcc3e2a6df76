package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-service/internal/adapter/repo"
	"github.com/example/storefront-service/internal/adapter/stripe"
	"github.com/example/storefront-service/internal/config"
	"github.com/example/storefront-service/internal/domain"
)

const testSecret = "whsec_e2e"

type failingMailer struct {
	mu    sync.Mutex
	calls int
}

func (m *failingMailer) Send(context.Context, domain.Email) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return errors.New("smtp: connection refused")
}

type stubPayments struct{}

func (stubPayments) CreateCheckoutSession(context.Context, domain.SessionRequest) (string, error) {
	return "https://pay.test/cs_new", nil
}

func testConfig() config.Config {
	return config.Config{
		Port:                "0",
		DatabaseURL:         "sqlite://:memory:",
		StripeWebhookSecret: testSecret,
		CheckoutCurrency:    "eur",
		ShippingCountries:   []string{"FR"},
		FrontendURL:         "http://shop.test",
		NotifyQueueSize:     10,
		NotifyWorkers:       1,
		NotifyTimeout:       time.Second,
		MaxBodyBytes:        1 << 20,
		LoginRatePerMin:     5,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, mailer domain.Mailer) (*app, *repo.SQLStore) {
	t.Helper()
	a, err := newApp(context.Background(), testConfig(), quietLogger(), withMailer(mailer), withPayments(stubPayments{}))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	s, ok := a.store.(*repo.SQLStore)
	require.True(t, ok)
	return a, s
}

func post(a *app, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func postSigned(a *app, body string) *httptest.ResponseRecorder {
	return post(a, "/api/v1/webhook", body, map[string]string{
		stripe.SignatureHeader: stripe.SignPayload([]byte(body), testSecret, time.Now()),
	})
}

func count(t *testing.T, s *repo.SQLStore, query string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB.QueryRow(query).Scan(&n))
	return n
}

const settledBody = `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{
  "id":"cs_e2e_1","amount_total":129900,"currency":"eur",
  "customer_details":{"email":"ada@example.com","name":"Ada"},
  "shipping_details":{"address":{"line1":"2 Rd","city":"Brussels","country":"BE"}},
  "metadata":{"items":"[\"iPhone 15 Pro x1 - 1299.00 EUR\"]"}}}}`

func TestSettlement_EmailFailureStillSucceeds(t *testing.T) {
	mailer := &failingMailer{}
	a, s := newTestApp(t, mailer)

	rr := postSigned(a, settledBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())

	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM orders`))
	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM analytics_events WHERE event_type = 'purchase'`))
	var pageURL string
	require.NoError(t, s.DB.QueryRow(`SELECT page_url FROM analytics_events WHERE event_type = 'purchase'`).Scan(&pageURL))
	assert.Equal(t, "http://shop.test/success?session_id=cs_e2e_1", pageURL)

	a.dispatcher.Close()
	assert.Equal(t, 1, mailer.calls)

	orders, err := s.ListRecentOrders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1299.00", orders[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "Brussels", orders[0].ShippingAddress.City)
	assert.Equal(t, []string{"iPhone 15 Pro x1 - 1299.00 EUR"}, orders[0].Items)
}

func TestSettlement_RedeliveryIsIdempotent(t *testing.T) {
	mailer := &failingMailer{}
	a, s := newTestApp(t, mailer)

	for i := 0; i < 3; i++ {
		rr := postSigned(a, settledBody)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())
	}
	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM orders`))
	assert.Equal(t, 1, count(t, s, `SELECT COUNT(*) FROM analytics_events`))
	a.dispatcher.Close()
	assert.Equal(t, 1, mailer.calls)
}

func TestSettlement_OtherTypesWriteNothing(t *testing.T) {
	a, s := newTestApp(t, &failingMailer{})

	rr := postSigned(a, `{"id":"evt_9","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"success"}`, rr.Body.String())
	assert.Equal(t, 0, count(t, s, `SELECT COUNT(*) FROM orders`))
	assert.Equal(t, 0, count(t, s, `SELECT COUNT(*) FROM analytics_events`))
}

func TestSettlement_BadSignatureWritesNothing(t *testing.T) {
	a, s := newTestApp(t, &failingMailer{})

	rr := post(a, "/api/v1/webhook", settledBody, map[string]string{stripe.SignatureHeader: "t=1,v1=deadbeef"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, count(t, s, `SELECT COUNT(*) FROM orders`))
}

func TestCatalogAndCheckout(t *testing.T) {
	a, s := newTestApp(t, &failingMailer{})
	_, err := s.DB.Exec(`INSERT INTO products (name, description, price, category, image_url, is_active, created_at)
		VALUES ('Sony WH-1000XM5', 'Réduction de bruit.', '349.00', 'Audio', 'https://img.test/sony.jpg', 1, '2025-01-01T00:00:00.000000000Z')`)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"price":349`)

	rr = post(a, "/api/v1/checkout", `{"items":[{"id":1,"name":"Sony WH-1000XM5","price":349,"quantity":1}]}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"url":"https://pay.test/cs_new"}`, rr.Body.String())
}

func TestNewApp_RequiresWebhookMode(t *testing.T) {
	cfg := testConfig()
	cfg.StripeWebhookSecret = ""
	_, err := newApp(context.Background(), cfg, quietLogger())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	cfg.AllowUnverifiedWebhooks = true
	a, err := newApp(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	a.Close()
}

func TestNewApp_BadDatabaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "mysql://localhost/shop"
	_, err := newApp(context.Background(), cfg, quietLogger())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
