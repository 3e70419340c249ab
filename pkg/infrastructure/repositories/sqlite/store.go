// Package sqlite persists lots and their logs in a SQLite database. The
// aggregation queries the dashboard needs (defect counts, conflicts,
// shipped-with-defects joins) run in SQL, mirroring what a relational
// store does best.
package sqlite

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Open opens a SQLite database at the given path with WAL mode, foreign
// keys, and a busy timeout. If logger is nil the store operates silently.
func Open(path string, logger *zap.SugaredLogger) (*sql.DB, error) {
	if logger != nil {
		logger.Debugw("Opening database", "path", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// WAL allows concurrent report reads during imports.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "executing %s", pragma)
		}
	}

	if logger != nil {
		logger.Infow("Database opened", "path", path)
	}
	return db, nil
}

// Store wraps a SQLite handle and hands out the three repository views
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store over an open database handle. Tests inject a
// mocked handle here.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// Lots returns the store's LotRepository view
func (s *Store) Lots() *LotRepository {
	return &LotRepository{s: s}
}

// ProductionLogs returns the store's ProductionLogRepository view
func (s *Store) ProductionLogs() *ProductionLogRepository {
	return &ProductionLogRepository{s: s}
}

// ShippingLogs returns the store's ShippingLogRepository view
func (s *Store) ShippingLogs() *ShippingLogRepository {
	return &ShippingLogRepository{s: s}
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing stored date %q", s)
	}
	return t, nil
}
