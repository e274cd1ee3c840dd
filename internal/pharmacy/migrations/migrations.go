package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// migration is a single versioned schema change. Statements are applied in
// order inside one transaction together with the version bookkeeping row, so a
// migration either lands completely or not at all.
type migration struct {
	version    int
	name       string
	statements []string
}

var all = []migration{
	{
		version: 1,
		name:    "base schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS medicines (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				generic_name TEXT,
				type TEXT,
				power TEXT,
				company TEXT,
				price TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS inventory (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				medicine_id INTEGER NOT NULL REFERENCES medicines(id),
				quantity INTEGER NOT NULL CHECK (quantity >= 0),
				expiry_date TEXT NOT NULL,
				purchase_price REAL NOT NULL,
				selling_price REAL NOT NULL,
				purchase_date TEXT NOT NULL DEFAULT (date('now'))
			)`,
			`CREATE TABLE IF NOT EXISTS sales (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				inventory_id INTEGER NOT NULL REFERENCES inventory(id),
				quantity INTEGER NOT NULL,
				sale_price REAL NOT NULL,
				sale_date TEXT NOT NULL DEFAULT (date('now'))
			)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_medicine ON inventory(medicine_id)`,
			`CREATE INDEX IF NOT EXISTS idx_inventory_expiry ON inventory(expiry_date)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_inventory ON sales(inventory_id)`,
			`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date)`,
		},
	},
	{
		// Point-of-sale fields added after the first release. Additive only:
		// rows written by the v1 schema stay readable.
		version: 2,
		name:    "sales point-of-sale columns",
		statements: []string{
			`ALTER TABLE sales ADD COLUMN customer_name TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE sales ADD COLUMN sale_time TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE sales ADD COLUMN total_amount REAL NOT NULL DEFAULT 0`,
		},
	},
}

// Apply brings the schema up to date. It is idempotent: already-applied
// versions are skipped, so it is safe to run on every startup before the core
// is used.
func Apply(ctx context.Context, db *sqlx.DB, log *logger.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range all {
		if m.version <= current {
			continue
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		log.Info().Int("version", m.version).Str("name", m.name).Msg("applied migration")
	}

	return nil
}

// Version returns the highest applied schema version.
func Version(ctx context.Context, db *sqlx.DB) (int, error) {
	var current int
	err := db.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	return current, err
}
