package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront-service/internal/adapter/cache"
	"github.com/example/storefront-service/internal/adapter/httpapi"
	"github.com/example/storefront-service/internal/adapter/mail"
	"github.com/example/storefront-service/internal/adapter/natsstan"
	"github.com/example/storefront-service/internal/adapter/repo"
	"github.com/example/storefront-service/internal/adapter/stripe"
	"github.com/example/storefront-service/internal/auth"
	"github.com/example/storefront-service/internal/config"
	"github.com/example/storefront-service/internal/domain"
	"github.com/example/storefront-service/internal/logging"
	"github.com/example/storefront-service/internal/metrics"
	"github.com/example/storefront-service/internal/notify"
	"github.com/example/storefront-service/internal/usecase"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	metrics.Register()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return fmt.Errorf("http: %w", err)
	}
	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

type app struct {
	handler    http.Handler
	store      repo.Store
	dispatcher *notify.Dispatcher
	bus        *natsstan.Publisher
	redis      *redis.Client
	log        *slog.Logger
}

type option func(*appOptions)

type appOptions struct {
	mailer   domain.Mailer
	payments domain.PaymentProvider
}

func withMailer(m domain.Mailer) option { return func(o *appOptions) { o.mailer = m } }

func withPayments(p domain.PaymentProvider) option { return func(o *appOptions) { o.payments = p } }

func newApp(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...option) (_ *app, err error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}
	log.Info("starting",
		"port", cfg.Port,
		"currency", cfg.CheckoutCurrency,
		"shipping_countries", cfg.ShippingCountries,
		"frontend_url", cfg.FrontendURL,
		"nats", cfg.NATSURL != "",
		"redis", cfg.RedisAddr != "",
	)

	verifier, err := stripe.NewVerifier(cfg.StripeWebhookSecret, cfg.AllowUnverifiedWebhooks, log)
	if err != nil {
		return nil, err
	}

	a := &app{log: log}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.store, err = repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err = a.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	var productCache domain.ProductCache = cache.NewMemoryProductCache()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		perr := client.Ping(pingCtx).Err()
		cancel()
		if perr != nil {
			log.Warn("redis unavailable, using in-process catalog cache", "error", perr)
			_ = client.Close()
		} else {
			a.redis = client
			productCache = cache.NewRedisProductCache(client, cfg.CatalogCacheTTL, log)
		}
	}
	n, err := usecase.LoadCatalog{Repo: a.store, Cache: productCache}.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", "products", n)

	mailer := o.mailer
	if mailer == nil {
		if cfg.ResendAPIKey != "" {
			mailer = mail.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, log)
		} else {
			log.Warn("RESEND_API_KEY not set, confirmation emails are only logged")
			mailer = mail.LogMailer{Log: log}
		}
	}

	var bus domain.SettlementPublisher
	if cfg.NATSURL != "" {
		p, cerr := natsstan.Connect(cfg.STANClusterID, cfg.STANClientID, cfg.NATSURL, cfg.STANSubject)
		if cerr != nil {
			log.Warn("settled orders will not be published", "error", cerr)
		} else {
			a.bus = p
			bus = p
		}
	}

	a.dispatcher = notify.NewDispatcher(cfg.NotifyQueueSize, cfg.NotifyTimeout, log)
	a.dispatcher.Start(cfg.NotifyWorkers)

	payments := o.payments
	if payments == nil {
		if cfg.StripeSecretKey == "" {
			log.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
		}
		payments = stripe.NewCheckoutClient(cfg.StripeSecretKey)
	}

	var tokens *auth.TokenIssuer
	if cfg.JWTSecret != "" {
		tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		log.Warn("JWT_SECRET not set, admin API is disabled")
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Log:          log,
		GetProduct:   usecase.GetProduct{Cache: productCache, Repo: a.store},
		ListProducts: usecase.ListProducts{Repo: a.store, Cache: productCache},
		Checkout: usecase.StartCheckout{
			Payments:         payments,
			Currency:         cfg.CheckoutCurrency,
			SuccessURL:       cfg.SuccessURL(),
			CancelURL:        cfg.CancelURL(),
			AllowedCountries: cfg.ShippingCountries,
		},
		Settle: usecase.HandleSettlement{
			Verifier: verifier,
			Store:    a.store,
			Notifier: notify.SettlementNotifier{
				Dispatcher: a.dispatcher,
				Mailer:     mailer,
				Bus:        bus,
				ShopURL:    cfg.FrontendURL,
				Log:        log,
			},
			PageURL: cfg.SuccessURL(),
			Log:     log,
		},
		RecordEvent:     usecase.RecordEvent{Store: a.store},
		RecentOrders:    usecase.ListRecentOrders{Orders: a.store},
		Admin:           auth.AdminAuthenticator{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash},
		Tokens:          tokens,
		Ready:           a.store.Ping,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		LoginRatePerMin: cfg.LoginRatePerMin,
	})
	a.handler = srv.Router
	return a, nil
}

// Close drains pending notifications before releasing connections.
func (a *app) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			a.log.Warn("stan close", "error", err)
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
