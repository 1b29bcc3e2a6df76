package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/storefront-service/internal/auth"
	"github.com/example/storefront-service/internal/usecase"
)

const webhookMaxBytes = 64 << 10

type Deps struct {
	Log *slog.Logger

	GetProduct   usecase.GetProduct
	ListProducts usecase.ListProducts
	Checkout     usecase.StartCheckout
	Settle       usecase.HandleSettlement
	RecordEvent  usecase.RecordEvent
	RecentOrders usecase.ListRecentOrders

	Admin  auth.AdminAuthenticator
	Tokens *auth.TokenIssuer

	// Ready reports whether the store is reachable.
	Ready           func(ctx context.Context) error
	MaxBodyBytes    int64
	LoginRatePerMin int
}

type Server struct {
	Router *mux.Router
	d      Deps
	log    *slog.Logger
}

func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 1 << 20
	}
	s := &Server{Router: mux.NewRouter(), d: d, log: d.Log}
	r := s.Router
	r.Use(withRequestID, instrument(s.log))

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	api.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	api.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodPost)

	login := newIPLimiter(d.LoginRatePerMin)
	api.Handle("/admin/login", login.middleware(http.HandlerFunc(s.handleAdminLogin))).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireAdmin(d.Tokens))
	admin.HandleFunc("/orders", s.handleAdminOrders).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusNotFound, "not found", "")
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
