package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/storefront-service/internal/adapter/stripe"
	"github.com/example/storefront-service/internal/domain"
	"github.com/example/storefront-service/internal/metrics"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "online"})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.d.Ready != nil {
		if err := s.d.Ready(r.Context()); err != nil {
			s.log.Warn("readiness check failed", "error", err)
			WriteProblem(w, r, http.StatusServiceUnavailable, "not ready", "database not reachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Catalog ---

type productView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description,omitempty"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.d.ListProducts.Execute(r.Context())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "validation failed", "invalid product id")
		return
	}
	p, err := s.d.GetProduct.Execute(r.Context(), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

// --- Checkout ---

// decodeCart accepts {"items": [...]} or a bare array of items.
func decodeCart(body []byte) ([]domain.CartItem, error) {
	trimmed := bytes.TrimSpace(body)
	var items []domain.CartItem
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var req struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, err
	}
	return req.Items, nil
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.d.MaxBodyBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	cart, err := decodeCart(body)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	url, err := s.d.Checkout.Execute(r.Context(), cart)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// --- Settlement notifications ---

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookMaxBytes))
	if err != nil {
		metrics.SettlementsTotal.WithLabelValues("rejected").Inc()
		WriteProblem(w, r, http.StatusBadRequest, "invalid payload", "body too large or unreadable")
		return
	}
	outcome, err := s.d.Settle.Execute(r.Context(), body, r.Header.Get(stripe.SignatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) || errors.Is(err, domain.ErrInvalidPayload) {
			metrics.SettlementsTotal.WithLabelValues("rejected").Inc()
			s.log.Warn("payment notification rejected", "error", err, "request_id", RequestID(r.Context()))
		} else {
			metrics.SettlementsTotal.WithLabelValues("failed").Inc()
		}
		writeError(w, r, s.log, err)
		return
	}
	metrics.SettlementsTotal.WithLabelValues(string(outcome)).Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// --- Analytics ---

type eventRequest struct {
	EventType string          `json:"event_type"`
	UserID    string          `json:"user_id"`
	PageURL   string          `json:"page_url"`
	Metadata  json.RawMessage `json:"metadata"`
}

// handleAnalytics always answers 200; failures are reported in the body.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.d.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "detail": fmt.Sprintf("invalid json: %v", err)})
		return
	}
	var meta domain.Metadata
	if len(req.Metadata) > 0 && !bytes.Equal(bytes.TrimSpace(req.Metadata), []byte("null")) {
		meta = domain.Metadata(req.Metadata)
	}
	err := s.d.RecordEvent.Execute(r.Context(), domain.Event{
		Type:     req.EventType,
		UserID:   req.UserID,
		PageURL:  req.PageURL,
		Metadata: meta,
	})
	if err != nil {
		s.log.Warn("analytics event not recorded", "event_type", req.EventType, "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "error", "detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// --- Admin ---

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.d.MaxBodyBytes)).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	if err := s.d.Admin.Authenticate(req.Email, req.Password); err != nil {
		s.log.Warn("admin login failed", "ip", clientIP(r))
		WriteProblem(w, r, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}
	if s.d.Tokens == nil {
		writeError(w, r, s.log, fmt.Errorf("%w: token issuer", domain.ErrConfiguration))
		return
	}
	token, exp, err := s.d.Tokens.Issue(req.Email)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   exp.UTC().Format(time.RFC3339),
	})
}

type orderView struct {
	ID              int64                   `json:"id"`
	SettlementID    string                  `json:"stripe_session_id"`
	CustomerEmail   *string                 `json:"customer_email"`
	CustomerName    *string                 `json:"customer_name"`
	TotalAmount     float64                 `json:"total_amount"`
	Status          string                  `json:"status"`
	CreatedAt       string                  `json:"created_at"`
	Items           []string                `json:"items"`
	ShippingAddress *domain.ShippingAddress `json:"shipping_address"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toOrderView(o domain.Order) orderView {
	v := orderView{
		ID:            o.ID,
		SettlementID:  o.SettlementID,
		CustomerEmail: optional(o.CustomerEmail),
		CustomerName:  optional(o.CustomerName),
		TotalAmount:   o.TotalAmount.InexactFloat64(),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		Items:         o.Items,
	}
	if v.Items == nil {
		v.Items = []string{}
	}
	if !o.ShippingAddress.IsEmpty() {
		addr := o.ShippingAddress
		v.ShippingAddress = &addr
	}
	return v
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			WriteProblem(w, r, http.StatusBadRequest, "validation failed", "limit must be a positive integer")
			return
		}
		limit = n
	}
	orders, err := s.d.RecentOrders.Execute(r.Context(), limit)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, out)
}
