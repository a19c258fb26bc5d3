package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
)

// Table names.
const (
	tableProducts  = "products"
	tableLedger    = "ledger"
	tableCustomers = "customers"
	tableSequences = "sequences"
)

// schema lists DDL per dialect. Statements are idempotent.
var schema = map[string][]string{
	dialect.Postgres: {
		`CREATE TABLE IF NOT EXISTS products (
			code          TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			tax_rate_pct  NUMERIC(6,2) NOT NULL,
			unit_price    NUMERIC(14,2) NOT NULL,
			position      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ledger (
			invoice_id         TEXT NOT NULL,
			line_no            INTEGER NOT NULL,
			invoice_date       TIMESTAMPTZ NOT NULL,
			code               TEXT NOT NULL,
			name               TEXT NOT NULL,
			quantity           INTEGER NOT NULL,
			discount_pct       NUMERIC(6,2) NOT NULL,
			unit_price_ex_tax  NUMERIC(14,2) NOT NULL,
			line_total         NUMERIC(14,2) NOT NULL,
			client_name        TEXT NOT NULL,
			client_id          TEXT NOT NULL DEFAULT '',
			phone              TEXT NOT NULL,
			email              TEXT NOT NULL,
			tier               TEXT NOT NULL,
			score              DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (invoice_id, line_no)
		)`,
		`CREATE INDEX IF NOT EXISTS ledger_email_idx ON ledger (email)`,
		`CREATE INDEX IF NOT EXISTS ledger_date_idx ON ledger (invoice_date)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id               UUID PRIMARY KEY,
			name             TEXT NOT NULL,
			document_id      TEXT NOT NULL DEFAULT '',
			email            TEXT NOT NULL UNIQUE,
			phone            TEXT NOT NULL DEFAULT '',
			birthday         TEXT NOT NULL DEFAULT '',
			purchases        INTEGER NOT NULL DEFAULT 0,
			total_spent      NUMERIC(14,2) NOT NULL DEFAULT 0,
			average_ticket   NUMERIC(14,2) NOT NULL DEFAULT 0,
			unique_products  INTEGER NOT NULL DEFAULT 0,
			frequency_days   INTEGER NOT NULL DEFAULT 0,
			first_purchase   TIMESTAMPTZ,
			last_purchase    TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			name   TEXT PRIMARY KEY,
			value  BIGINT NOT NULL
		)`,
	},
	dialect.SQLite: {
		`CREATE TABLE IF NOT EXISTS products (
			code          TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			tax_rate_pct  TEXT NOT NULL,
			unit_price    TEXT NOT NULL,
			position      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ledger (
			invoice_id         TEXT NOT NULL,
			line_no            INTEGER NOT NULL,
			invoice_date       DATETIME NOT NULL,
			code               TEXT NOT NULL,
			name               TEXT NOT NULL,
			quantity           INTEGER NOT NULL,
			discount_pct       TEXT NOT NULL,
			unit_price_ex_tax  TEXT NOT NULL,
			line_total         TEXT NOT NULL,
			client_name        TEXT NOT NULL,
			client_id          TEXT NOT NULL DEFAULT '',
			phone              TEXT NOT NULL,
			email              TEXT NOT NULL,
			tier               TEXT NOT NULL,
			score              REAL NOT NULL,
			PRIMARY KEY (invoice_id, line_no)
		)`,
		`CREATE INDEX IF NOT EXISTS ledger_email_idx ON ledger (email)`,
		`CREATE INDEX IF NOT EXISTS ledger_date_idx ON ledger (invoice_date)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			document_id      TEXT NOT NULL DEFAULT '',
			email            TEXT NOT NULL UNIQUE,
			phone            TEXT NOT NULL DEFAULT '',
			birthday         TEXT NOT NULL DEFAULT '',
			purchases        INTEGER NOT NULL DEFAULT 0,
			total_spent      TEXT NOT NULL DEFAULT '0',
			average_ticket   TEXT NOT NULL DEFAULT '0',
			unique_products  INTEGER NOT NULL DEFAULT 0,
			frequency_days   INTEGER NOT NULL DEFAULT 0,
			first_purchase   DATETIME,
			last_purchase    DATETIME,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			name   TEXT PRIMARY KEY,
			value  INTEGER NOT NULL
		)`,
	},
}

// Migrate creates every table the service needs.
func (db *DB) Migrate(ctx context.Context) error {
	stmts, ok := schema[db.Dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", db.Dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			db.logger.Error("db.migrate.failed", "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	db.logger.Info("db.migrate.ok", "dialect", db.Dialect, "statements", len(stmts))
	return nil
}
