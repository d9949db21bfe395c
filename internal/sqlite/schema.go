// Schema lifecycle for the ledger file: base tables, guarded additive
// column migrations, company-directory backfill, and indexes, all
// applied idempotently inside one savepoint.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Base table DDL. Column defaults mirror the data model: done starts
// false, created_at is assigned server-side in UTC with millisecond
// precision, company names collate case-insensitively.
const (
	createOrders = `CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    client_name TEXT NOT NULL,
    article_name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL,
    city TEXT NOT NULL,
    address TEXT NOT NULL,
    delivery_company TEXT NOT NULL,
    delivery_date TEXT NOT NULL,
    description TEXT,
    done INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
    delivery_company_id INTEGER
);`

	createOpenedOrders = `CREATE TABLE IF NOT EXISTS opened_orders (
    order_id INTEGER PRIMARY KEY,
    position INTEGER NOT NULL,
    FOREIGN KEY(order_id) REFERENCES orders(id) ON DELETE CASCADE
);`

	createDeliveryCompanies = `CREATE TABLE IF NOT EXISTS delivery_companies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`

	createSettings = `CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`

	createTheme = `CREATE TABLE IF NOT EXISTS theme (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);`
)

// columnMigration is one guarded additive migration. The guard is a
// schema-metadata existence check: catching a duplicate-column error
// instead would mask unrelated failures.
type columnMigration struct {
	table  string
	column string
	ddl    string
}

// columnMigrations run in fixed order after table creation.
var columnMigrations = []columnMigration{
	{"orders", "delivery_company_id", `ALTER TABLE orders ADD COLUMN delivery_company_id INTEGER`},
	{"orders", "article_name", `ALTER TABLE orders ADD COLUMN article_name TEXT NOT NULL DEFAULT ''`},
	{"orders", "done", `ALTER TABLE orders ADD COLUMN done INTEGER NOT NULL DEFAULT 0`},
}

// indexDDL covers the analytics and listing access patterns: the
// directory listing, the FK backfill/join, article search, and the
// done+created_at composite for backlog queries.
var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_delivery_companies_active_name ON delivery_companies(active, name)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_delivery_company_id ON orders(delivery_company_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_article_name ON orders(article_name)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_done_created_at ON orders(done, created_at DESC)`,
}

// EnsureSchema brings the ledger file to the current schema. It is
// idempotent and cheap enough to call before every operation, and it
// runs inside a savepoint rather than a top-level transaction so it is
// safe when the caller already holds one. On any step failure the
// savepoint is rolled back and the original error returned; rollback
// errors are swallowed so they never mask the cause.
func (s *Store) EnsureSchema() error {
	// Re-assert in case the caller handed us a connection configured
	// elsewhere.
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := s.db.Exec("SAVEPOINT ensure_schema"); err != nil {
		return fmt.Errorf("starting schema savepoint: %w", busyErr(err))
	}

	if err := s.applySchema(); err != nil {
		_, _ = s.db.Exec("ROLLBACK TO SAVEPOINT ensure_schema")
		_, _ = s.db.Exec("RELEASE SAVEPOINT ensure_schema")
		return err
	}

	if _, err := s.db.Exec("RELEASE SAVEPOINT ensure_schema"); err != nil {
		return fmt.Errorf("releasing schema savepoint: %w", err)
	}
	return nil
}

// applySchema executes every schema step in fixed order. The caller
// owns the savepoint.
func (s *Store) applySchema() error {
	for _, ddl := range []string{
		createOrders,
		createOpenedOrders,
		createDeliveryCompanies,
		createSettings,
		createTheme,
	} {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating base tables: %w", err)
		}
	}

	for _, m := range columnMigrations {
		exists, err := s.columnExists(m.table, m.column)
		if err != nil {
			return fmt.Errorf("checking %s.%s: %w", m.table, m.column, err)
		}
		if exists {
			continue
		}
		if _, err := s.db.Exec(m.ddl); err != nil {
			return fmt.Errorf("adding %s.%s: %w", m.table, m.column, err)
		}
		s.log.Info("schema migration applied",
			zap.String("table", m.table),
			zap.String("column", m.column))
	}

	// Seed the company directory from any pre-existing free-text values,
	// then point orders at their directory rows. Only rows with an unset
	// reference are touched so re-runs are no-ops.
	if _, err := s.db.Exec(`
        INSERT OR IGNORE INTO delivery_companies(name)
        SELECT DISTINCT TRIM(delivery_company)
        FROM orders
        WHERE TRIM(delivery_company) <> ''`); err != nil {
		return fmt.Errorf("backfilling company directory: %w", err)
	}
	if _, err := s.db.Exec(`
        UPDATE orders
        SET delivery_company_id = (
          SELECT id FROM delivery_companies
          WHERE name = orders.delivery_company COLLATE NOCASE
        )
        WHERE (delivery_company_id IS NULL OR delivery_company_id = 0)
          AND TRIM(delivery_company) <> ''`); err != nil {
		return fmt.Errorf("backfilling order company references: %w", err)
	}

	for _, ddl := range indexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating indexes: %w", err)
		}
	}

	return nil
}

// columnExists checks the live schema metadata for a column.
func (s *Store) columnExists(table, column string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM pragma_table_info(?) WHERE name = ? LIMIT 1",
		table, column,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
