package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/infrastructure/events"
	"github.com/vsinha/lottrack/pkg/infrastructure/repositories/csv"
)

// ImportConfig holds configuration for the import command
type ImportConfig struct {
	DatabasePath   string
	ProductionFile string
	ShippingFile   string
}

// ImportCommand loads production and shipping log CSVs into the database
type ImportCommand struct {
	config ImportConfig
	logger *zap.SugaredLogger
}

// NewImportCommand creates an import command
func NewImportCommand(config ImportConfig, logger *zap.SugaredLogger) *ImportCommand {
	return &ImportCommand{config: config, logger: logger}
}

// Execute runs the import
func (c *ImportCommand) Execute(ctx context.Context) error {
	if c.config.ProductionFile == "" && c.config.ShippingFile == "" {
		return errors.New("must specify -production and/or -shipping CSV files")
	}
	for _, path := range []string{c.config.ProductionFile, c.config.ShippingFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(err, "input file %s", path)
		}
	}

	store, db, err := openStore(c.config.DatabasePath, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	eventStore := events.NewInMemoryEventStore(c.logger)
	importer := csv.NewImporter(
		store.Lots(), store.ProductionLogs(), store.ShippingLogs(), eventStore, c.logger)

	if c.config.ProductionFile != "" {
		summary, err := importer.ImportProductionLogs(c.config.ProductionFile)
		if err != nil {
			return errors.Wrap(err, "importing production logs")
		}
		printSummary("production", summary)
	}

	if c.config.ShippingFile != "" {
		summary, err := importer.ImportShippingLogs(c.config.ShippingFile)
		if err != nil {
			return errors.Wrap(err, "importing shipping logs")
		}
		printSummary("shipping", summary)
	}
	return nil
}

func printSummary(kind string, s *csv.Summary) {
	fmt.Printf("Imported %d %s rows from %s (%d lots created, %d matched existing)\n",
		s.RowsRead, kind, s.SourceFile, s.LotsCreated, s.LotsMatched)
}
