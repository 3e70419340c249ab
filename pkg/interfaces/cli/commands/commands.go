// Package commands implements the CLI subcommands. Each command owns a
// Config struct populated by flag parsing in main and an Execute method
// that wires the stores and services it needs.
package commands

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/infrastructure/repositories/sqlite"
)

// openStore opens the database, runs migrations, and returns the store.
// The caller closes the returned handle.
func openStore(databasePath string, logger *zap.SugaredLogger) (*sqlite.Store, *sql.DB, error) {
	db, err := sqlite.Open(databasePath, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := sqlite.Migrate(db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}
	return sqlite.NewStore(db, logger), db, nil
}
