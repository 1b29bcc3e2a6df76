package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"github.com/example/storefront-service/internal/domain"
)

// Store is everything the service needs from persistence.
type Store interface {
	domain.SettlementStore
	domain.OrderReader
	domain.EventStore
	domain.ProductRepository
	Ping(ctx context.Context) error
	EnsureSchema(ctx context.Context) error
	Close()
}

// Open picks the backend from the URL scheme: postgres:// or postgresql:// use pgx,
// sqlite:// and file: use the embedded SQLite driver.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		cfg, err := pgxpool.ParseConfig(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		return NewPostgresStore(pool), nil
	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		db, err := OpenSQLite(sqliteDSN(databaseURL))
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("%w: unsupported DATABASE_URL scheme in %q", domain.ErrConfiguration, redact(databaseURL))
	}
}

// OpenSQLite opens a single-connection SQLite handle; :memory: databases live per connection.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func sqliteDSN(databaseURL string) string {
	dsn := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

func redact(url string) string {
	if i := strings.Index(url, "@"); i >= 0 {
		if j := strings.Index(url, "://"); j >= 0 && j < i {
			return url[:j+3] + "***" + url[i:]
		}
	}
	return url
}
