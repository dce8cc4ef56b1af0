package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema is the full database schema for SQLite.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cuts (
    id                INTEGER PRIMARY KEY,
    name              TEXT NOT NULL,
    description       TEXT,
    nutritional_value TEXT
);

CREATE TABLE IF NOT EXISTS library_categories (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS library_items (
    id          INTEGER PRIMARY KEY,
    title       TEXT NOT NULL,
    file_path   TEXT NOT NULL,
    file_type   TEXT,
    category_id INTEGER REFERENCES library_categories(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_library_items_category ON library_items(category_id);

CREATE TABLE IF NOT EXISTS animals (
    id         INTEGER PRIMARY KEY,
    name       TEXT,
    tag_number TEXT NOT NULL UNIQUE,
    species    TEXT
);

CREATE TABLE IF NOT EXISTS health_records (
    id           INTEGER PRIMARY KEY,
    animal_id    INTEGER NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
    date         TEXT NOT NULL,
    status       TEXT,
    medications  TEXT,
    observations TEXT
);

CREATE INDEX IF NOT EXISTS idx_health_records_animal ON health_records(animal_id);

CREATE TABLE IF NOT EXISTS products (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    unit        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
    id            INTEGER PRIMARY KEY,
    product_id    INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    quantity      REAL NOT NULL,
    movement_date TEXT NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('purchase', 'use', 'adjustment')),
    cost_per_unit REAL
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id);
`

// postgresSchema mirrors sqliteSchema for PostgreSQL.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cuts (
    id                BIGSERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    description       TEXT,
    nutritional_value TEXT
);

CREATE TABLE IF NOT EXISTS library_categories (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS library_items (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    file_path   TEXT NOT NULL,
    file_type   TEXT,
    category_id BIGINT REFERENCES library_categories(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_library_items_category ON library_items(category_id);

CREATE TABLE IF NOT EXISTS animals (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT,
    tag_number TEXT NOT NULL UNIQUE,
    species    TEXT
);

CREATE TABLE IF NOT EXISTS health_records (
    id           BIGSERIAL PRIMARY KEY,
    animal_id    BIGINT NOT NULL REFERENCES animals(id) ON DELETE CASCADE,
    date         TEXT NOT NULL,
    status       TEXT,
    medications  TEXT,
    observations TEXT
);

CREATE INDEX IF NOT EXISTS idx_health_records_animal ON health_records(animal_id);

CREATE TABLE IF NOT EXISTS products (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    unit        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
    id            BIGSERIAL PRIMARY KEY,
    product_id    BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    quantity      DOUBLE PRECISION NOT NULL,
    movement_date TEXT NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('purchase', 'use', 'adjustment')),
    cost_per_unit DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
