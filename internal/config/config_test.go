package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "CHECKOUT_CURRENCY", "SHIPPING_COUNTRIES", "ALLOW_UNVERIFIED_WEBHOOKS", "JWT_TTL", "NOTIFY_QUEUE_SIZE", "CONFIG_FILE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sqlite://storefront.db", cfg.DatabaseURL)
	assert.Equal(t, "eur", cfg.CheckoutCurrency)
	assert.Equal(t, []string{"FR", "BE", "CH", "LU", "DE", "ES", "IT", "GB", "US", "CA"}, cfg.ShippingCountries)
	assert.False(t, cfg.AllowUnverifiedWebhooks)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 100, cfg.NotifyQueueSize)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHIPPING_COUNTRIES", " fr, de ,,")
	t.Setenv("ALLOW_UNVERIFIED_WEBHOOKS", "true")
	t.Setenv("CHECKOUT_CURRENCY", "USD")
	t.Setenv("FRONTEND_URL", "https://shop.test/")
	t.Setenv("NOTIFY_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"FR", "DE"}, cfg.ShippingCountries)
	assert.True(t, cfg.AllowUnverifiedWebhooks)
	assert.Equal(t, "usd", cfg.CheckoutCurrency)
	assert.Equal(t, 4, cfg.NotifyWorkers)
	assert.Equal(t, "https://shop.test/success?session_id={CHECKOUT_SESSION_ID}", cfg.SuccessURL())
	assert.Equal(t, "https://shop.test/cancel", cfg.CancelURL())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nstripe_webhook_secret: whsec_file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "whsec_file", cfg.StripeWebhookSecret)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("NOTIFY_QUEUE_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NOTIFY_QUEUE_SIZE", "10")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
