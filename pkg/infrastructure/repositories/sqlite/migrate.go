package sqlite

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so calling this on every startup is safe.
func Migrate(db *sql.DB, logger *zap.SugaredLogger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS lots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lot_identifier TEXT NOT NULL UNIQUE,
			normalized_lot_id TEXT NOT NULL UNIQUE,
			part_number TEXT NOT NULL,
			created_date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_normalized ON lots(normalized_lot_id)`,

		`CREATE TABLE IF NOT EXISTS production_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			department TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS defect_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			severity TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			region TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS production_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lot_id INTEGER NOT NULL REFERENCES lots(id),
			production_line_id INTEGER NOT NULL REFERENCES production_lines(id),
			defect_type_id INTEGER REFERENCES defect_types(id),
			production_date TEXT NOT NULL,
			shift TEXT NOT NULL DEFAULT '',
			units_planned INTEGER NOT NULL DEFAULT 0,
			units_actual INTEGER NOT NULL DEFAULT 0,
			downtime_minutes INTEGER NOT NULL DEFAULT 0,
			issue_flag INTEGER NOT NULL DEFAULT 0,
			supervisor_notes TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			source_row INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_production_lot ON production_logs(lot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_production_date ON production_logs(production_date)`,

		`CREATE TABLE IF NOT EXISTS shipping_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lot_id INTEGER NOT NULL REFERENCES lots(id),
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			ship_date TEXT NOT NULL,
			sales_order_number TEXT NOT NULL DEFAULT '',
			destination_state TEXT NOT NULL DEFAULT '',
			carrier TEXT NOT NULL DEFAULT '',
			bol_number TEXT NOT NULL DEFAULT '',
			tracking_number TEXT NOT NULL DEFAULT '',
			qty_shipped INTEGER NOT NULL DEFAULT 0,
			ship_status TEXT NOT NULL,
			hold_reason TEXT NOT NULL DEFAULT '',
			shipping_notes TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			source_row INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shipping_lot ON shipping_logs(lot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shipping_date ON shipping_logs(ship_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "migrating schema")
		}
	}

	if logger != nil {
		logger.Debugw("Schema migrated", "tables", 6)
	}
	return nil
}
