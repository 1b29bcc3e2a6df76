package repo

// Схема для Postgres.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS products (
  id          bigserial PRIMARY KEY,
  name        text NOT NULL,
  description text,
  price       numeric(12,2) NOT NULL,
  category    text NOT NULL DEFAULT '',
  image_url   text NOT NULL DEFAULT '',
  is_active   boolean NOT NULL DEFAULT true,
  created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);

CREATE TABLE IF NOT EXISTS orders (
  id                bigserial PRIMARY KEY,
  stripe_session_id text NOT NULL,
  customer_email    text,
  customer_name     text,
  total_amount      numeric(12,2) NOT NULL,
  status            text NOT NULL,
  created_at        timestamptz NOT NULL,
  items             jsonb NOT NULL DEFAULT '[]',
  shipping_address  jsonb NOT NULL DEFAULT '{}'
);
CREATE UNIQUE INDEX IF NOT EXISTS orders_stripe_session_id_key ON orders (stripe_session_id);

CREATE TABLE IF NOT EXISTS analytics_events (
  id            bigserial PRIMARY KEY,
  event_type    text NOT NULL,
  user_id       text NOT NULL,
  page_url      text NOT NULL DEFAULT '',
  metadata_json jsonb NOT NULL DEFAULT '{}',
  created_at    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS analytics_events_event_type_idx ON analytics_events (event_type);
`

// Схема для SQLite: время хранится текстом в RFC 3339.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT NOT NULL,
  description TEXT,
  price       TEXT NOT NULL,
  category    TEXT NOT NULL DEFAULT '',
  image_url   TEXT NOT NULL DEFAULT '',
  is_active   INTEGER NOT NULL DEFAULT 1,
  created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE INDEX IF NOT EXISTS products_category_idx ON products (category);

CREATE TABLE IF NOT EXISTS orders (
  id                INTEGER PRIMARY KEY AUTOINCREMENT,
  stripe_session_id TEXT NOT NULL,
  customer_email    TEXT,
  customer_name     TEXT,
  total_amount      TEXT NOT NULL,
  status            TEXT NOT NULL,
  created_at        TEXT NOT NULL,
  items             TEXT NOT NULL DEFAULT '[]',
  shipping_address  TEXT NOT NULL DEFAULT '{}'
);
CREATE UNIQUE INDEX IF NOT EXISTS orders_stripe_session_id_key ON orders (stripe_session_id);

CREATE TABLE IF NOT EXISTS analytics_events (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  event_type    TEXT NOT NULL,
  user_id       TEXT NOT NULL,
  page_url      TEXT NOT NULL DEFAULT '',
  metadata_json TEXT NOT NULL DEFAULT '{}',
  created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS analytics_events_event_type_idx ON analytics_events (event_type);
`
