package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-service/internal/domain"
)

// SQLStore stores orders, events and the catalog through database/sql.
// It is used with the embedded SQLite driver for local runs.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

const (
	sqlInsertOrder = `INSERT INTO orders (stripe_session_id, customer_email, customer_name, total_amount, status, created_at, items, shipping_address)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (stripe_session_id) DO NOTHING
RETURNING id`
	sqlInsertEvent  = `INSERT INTO analytics_events (event_type, user_id, page_url, metadata_json, created_at) VALUES (?, ?, ?, ?, ?)`
	sqlRecentOrders = `SELECT id, stripe_session_id, COALESCE(customer_email, ''), COALESCE(customer_name, ''), total_amount, status, created_at, items, shipping_address
FROM orders ORDER BY created_at DESC, id DESC LIMIT ?`
	sqlProductColumns = `SELECT id, name, COALESCE(description, ''), price, category, image_url, is_active, created_at FROM products`
)

// SaveSettlement inserts the order and its purchase event in one transaction.
func (s *SQLStore) SaveSettlement(ctx context.Context, o domain.Order, e domain.Event) (domain.Order, error) {
	items, address, err := encodeOrderJSON(o)
	if err != nil {
		return domain.Order{}, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, sqlInsertOrder,
		o.SettlementID, nullable(o.CustomerEmail), nullable(o.CustomerName),
		o.TotalAmount.StringFixed(2), o.Status, formatTime(o.CreatedAt), items, address,
	).Scan(&o.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrDuplicateSettlement
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlInsertEvent,
		e.Type, e.UserID, e.PageURL, string(e.Metadata.Bytes()), formatTime(e.CreatedAt),
	); err != nil {
		return domain.Order{}, fmt.Errorf("insert purchase event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (s *SQLStore) InsertEvent(ctx context.Context, e domain.Event) error {
	_, err := s.DB.ExecContext(ctx, sqlInsertEvent, e.Type, e.UserID, e.PageURL, string(e.Metadata.Bytes()), formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *SQLStore) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := s.DB.QueryContext(ctx, sqlRecentOrders, limit)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o                    domain.Order
			total, created       string
			itemsRaw, addressRaw []byte
		)
		if err := rows.Scan(&o.ID, &o.SettlementID, &o.CustomerEmail, &o.CustomerName, &total, &o.Status, &created, &itemsRaw, &addressRaw); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %d total %q: %w", o.ID, total, err)
		}
		o.CreatedAt = parseTime(created)
		o.Items = decodeItems(itemsRaw)
		o.ShippingAddress = decodeAddress(addressRaw)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.DB.QueryContext(ctx, sqlProductColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanSQLProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := scanSQLProduct(s.DB.QueryRowContext(ctx, sqlProductColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, sqliteSchema)
	return err
}

func (s *SQLStore) Close() {
	_ = s.DB.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLProduct(row rowScanner) (domain.Product, error) {
	var (
		p              domain.Product
		price, created string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.ImageURL, &p.IsActive, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan product: %w", err)
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return p, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	p.CreatedAt = parseTime(created)
	return p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// sqliteTime has a fixed width so that text ordering matches time ordering.
const sqliteTime = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTime)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

var (
	_ domain.SettlementStore   = (*SQLStore)(nil)
	_ domain.OrderReader       = (*SQLStore)(nil)
	_ domain.EventStore        = (*SQLStore)(nil)
	_ domain.ProductRepository = (*SQLStore)(nil)
)
