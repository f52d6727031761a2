package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"food-ordering/api/config"
)

// Connect opens the Postgres pool with retry; containers often come up after
// the API does.
func Connect(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database)

	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		db, err = sql.Open("pgx", dsn)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = db.PingContext(pctx)
			cancel()
			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	phone            TEXT NOT NULL DEFAULT '',
	role             TEXT NOT NULL,
	is_available     BOOLEAN NOT NULL DEFAULT false,
	latitude         DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude        DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_deliveries INTEGER NOT NULL DEFAULT 0,
	earnings         DOUBLE PRECISION NOT NULL DEFAULT 0,
	rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
	vehicle_type     TEXT NOT NULL DEFAULT '',
	vehicle_number   TEXT NOT NULL DEFAULT '',
	license_number   TEXT NOT NULL DEFAULT '',
	location_at      TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS restaurants (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL UNIQUE,
	name             TEXT NOT NULL,
	phone            TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	preparation_time INTEGER NOT NULL DEFAULT 20,
	is_open          BOOLEAN NOT NULL DEFAULT true,
	rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_reviews    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS menu_items (
	id            TEXT PRIMARY KEY,
	restaurant_id TEXT NOT NULL REFERENCES restaurants(id),
	name          TEXT NOT NULL,
	price         DOUBLE PRECISION NOT NULL,
	is_available  BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS carts (
	id            TEXT PRIMARY KEY,
	customer_id   TEXT NOT NULL UNIQUE,
	restaurant_id TEXT,
	items         JSONB NOT NULL DEFAULT '[]',
	subtotal      DOUBLE PRECISION NOT NULL DEFAULT 0,
	tax           DOUBLE PRECISION NOT NULL DEFAULT 0,
	delivery_fee  DOUBLE PRECISION NOT NULL DEFAULT 0,
	total         DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id                      TEXT PRIMARY KEY,
	order_number            TEXT NOT NULL UNIQUE,
	customer_id             TEXT NOT NULL,
	restaurant_id           TEXT NOT NULL,
	delivery_boy_id         TEXT,
	items                   JSONB NOT NULL,
	delivery_address        JSONB NOT NULL,
	payment_method          TEXT NOT NULL,
	payment_status          TEXT NOT NULL,
	subtotal                DOUBLE PRECISION NOT NULL,
	tax                     DOUBLE PRECISION NOT NULL,
	delivery_fee            DOUBLE PRECISION NOT NULL,
	total                   DOUBLE PRECISION NOT NULL,
	preparation_time        INTEGER NOT NULL,
	estimated_delivery_time TIMESTAMPTZ NOT NULL,
	actual_delivery_time    TIMESTAMPTZ,
	status                  TEXT NOT NULL,
	status_history          JSONB NOT NULL DEFAULT '[]',
	cancellation_reason     TEXT NOT NULL DEFAULT '',
	food_rating             INTEGER,
	delivery_rating         INTEGER,
	rating_comment          TEXT NOT NULL DEFAULT '',
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_restaurant ON orders(restaurant_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_courier ON orders(delivery_boy_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_ready ON orders(status, created_at) WHERE delivery_boy_id IS NULL;
`

// Migrate creates the schema on startup; every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
