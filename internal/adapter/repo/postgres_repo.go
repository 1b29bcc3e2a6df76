package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-service/internal/domain"
)

type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const (
	pgInsertOrder = `INSERT INTO orders (stripe_session_id, customer_email, customer_name, total_amount, status, created_at, items, shipping_address)
VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7::jsonb, $8::jsonb)
ON CONFLICT (stripe_session_id) DO NOTHING
RETURNING id`
	pgInsertEvent = `INSERT INTO analytics_events (event_type, user_id, page_url, metadata_json, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5)`
	pgRecentOrders = `SELECT id, stripe_session_id, COALESCE(customer_email, ''), COALESCE(customer_name, ''), total_amount::text, status, created_at, items, shipping_address
FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`
	pgProductColumns = `SELECT id, name, COALESCE(description, ''), price::text, category, image_url, is_active, created_at FROM products`
)

// SaveSettlement — заказ и событие покупки пишутся в одной транзакции, повтор той же платёжной сессии не пишет ничего.
func (r *PostgresStore) SaveSettlement(ctx context.Context, o domain.Order, e domain.Event) (domain.Order, error) {
	items, address, err := encodeOrderJSON(o)
	if err != nil {
		return domain.Order{}, err
	}
	err = pgx.BeginFunc(ctx, r.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, pgInsertOrder,
			o.SettlementID, nullable(o.CustomerEmail), nullable(o.CustomerName),
			o.TotalAmount.StringFixed(2), o.Status, o.CreatedAt, items, address,
		).Scan(&o.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrDuplicateSettlement
		}
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if _, err := tx.Exec(ctx, pgInsertEvent, e.Type, e.UserID, e.PageURL, string(e.Metadata.Bytes()), e.CreatedAt); err != nil {
			return fmt.Errorf("insert purchase event: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *PostgresStore) InsertEvent(ctx context.Context, e domain.Event) error {
	_, err := r.Pool.Exec(ctx, pgInsertEvent, e.Type, e.UserID, e.PageURL, string(e.Metadata.Bytes()), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *PostgresStore) ListRecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.Pool.Query(ctx, pgRecentOrders, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o                    domain.Order
			total                string
			itemsRaw, addressRaw []byte
		)
		if err := rows.Scan(&o.ID, &o.SettlementID, &o.CustomerEmail, &o.CustomerName, &total, &o.Status, &o.CreatedAt, &itemsRaw, &addressRaw); err != nil {
			return nil, err
		}
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order %d total %q: %w", o.ID, total, err)
		}
		o.CreatedAt = o.CreatedAt.UTC()
		o.Items = decodeItems(itemsRaw)
		o.ShippingAddress = decodeAddress(addressRaw)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, pgProductColumns+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanPgProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresStore) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := scanPgProduct(r.Pool.QueryRow(ctx, pgProductColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func scanPgProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.ImageURL, &p.IsActive, &p.CreatedAt); err != nil {
		return p, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return p, fmt.Errorf("product %d price %q: %w", p.ID, price, err)
	}
	return p, nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresStore) Close() {
	r.Pool.Close()
}

var (
	_ domain.SettlementStore   = (*PostgresStore)(nil)
	_ domain.OrderReader       = (*PostgresStore)(nil)
	_ domain.EventStore        = (*PostgresStore)(nil)
	_ domain.ProductRepository = (*PostgresStore)(nil)
)
