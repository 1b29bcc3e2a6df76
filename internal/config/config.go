package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/example/storefront-service/internal/domain"
)

// Config is built once at startup and passed by value.
type Config struct {
	Port        string
	DatabaseURL string

	StripeSecretKey         string
	StripeWebhookSecret     string
	AllowUnverifiedWebhooks bool
	CheckoutCurrency        string
	ShippingCountries       []string
	FrontendURL             string

	ResendAPIKey string
	MailFrom     string

	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	JWTTTL            time.Duration
	LoginRatePerMin   int

	NATSURL       string
	STANClusterID string
	STANClientID  string
	STANSubject   string

	RedisAddr       string
	CatalogCacheTTL time.Duration

	NotifyQueueSize int
	NotifyWorkers   int
	NotifyTimeout   time.Duration

	MaxBodyBytes int64
	LogLevel     string
	LogFormat    string
}

var defaults = map[string]any{
	"PORT":                      "8000",
	"DATABASE_URL":              "sqlite://storefront.db",
	"ALLOW_UNVERIFIED_WEBHOOKS": false,
	"CHECKOUT_CURRENCY":         "eur",
	"SHIPPING_COUNTRIES":        "FR,BE,CH,LU,DE,ES,IT,GB,US,CA",
	"FRONTEND_URL":              "http://localhost:5173",
	"MAIL_FROM":                 "Storefront <onboarding@resend.dev>",
	"JWT_TTL":                   "12h",
	"LOGIN_RATE_PER_MIN":        5,
	"STAN_CLUSTER_ID":           "test-cluster",
	"STAN_SUBJECT":              "order.settled",
	"CATALOG_CACHE_TTL":         "10m",
	"NOTIFY_QUEUE_SIZE":         100,
	"NOTIFY_WORKERS":            2,
	"NOTIFY_TIMEOUT":            "15s",
	"MAX_BODY_BYTES":            1 << 20,
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
}

// Load reads the environment, and the YAML file named by CONFIG_FILE if set.
// Environment variables win over the file.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:                    v.GetString("PORT"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		StripeSecretKey:         v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:     v.GetString("STRIPE_WEBHOOK_SECRET"),
		AllowUnverifiedWebhooks: v.GetBool("ALLOW_UNVERIFIED_WEBHOOKS"),
		CheckoutCurrency:        strings.ToLower(v.GetString("CHECKOUT_CURRENCY")),
		ShippingCountries:       splitCSV(v.GetString("SHIPPING_COUNTRIES")),
		FrontendURL:             strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		ResendAPIKey:            v.GetString("RESEND_API_KEY"),
		MailFrom:                v.GetString("MAIL_FROM"),
		AdminEmail:              v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash:       v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  v.GetDuration("JWT_TTL"),
		LoginRatePerMin:         v.GetInt("LOGIN_RATE_PER_MIN"),
		NATSURL:                 v.GetString("NATS_URL"),
		STANClusterID:           v.GetString("STAN_CLUSTER_ID"),
		STANClientID:            v.GetString("STAN_CLIENT_ID"),
		STANSubject:             v.GetString("STAN_SUBJECT"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		CatalogCacheTTL:         v.GetDuration("CATALOG_CACHE_TTL"),
		NotifyQueueSize:         v.GetInt("NOTIFY_QUEUE_SIZE"),
		NotifyWorkers:           v.GetInt("NOTIFY_WORKERS"),
		NotifyTimeout:           v.GetDuration("NOTIFY_TIMEOUT"),
		MaxBodyBytes:            v.GetInt64("MAX_BODY_BYTES"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogFormat:               v.GetString("LOG_FORMAT"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is empty")
	}
	if c.CheckoutCurrency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY is empty")
	}
	if c.NotifyQueueSize < 1 || c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE and NOTIFY_WORKERS must be positive")
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

// SuccessURL is where the provider sends the buyer after payment.
func (c Config) SuccessURL() string {
	return c.FrontendURL + "/success?session_id=" + domain.SessionIDPlaceholder
}

func (c Config) CancelURL() string {
	return c.FrontendURL + "/cancel"
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
