package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/application/dto"
	"github.com/vsinha/lottrack/pkg/application/services"
	"github.com/vsinha/lottrack/pkg/interfaces/cli/output"
)

// LookupConfig holds configuration for the lookup command
type LookupConfig struct {
	DatabasePath string
	Identifier   string
	Exact        bool
	Format       string
}

// LookupCommand resolves a lot identifier to its consolidated view.
// Lookups are fuzzy by default so operators can paste identifiers as they
// appear on any spreadsheet.
type LookupCommand struct {
	config LookupConfig
	logger *zap.SugaredLogger
}

// NewLookupCommand creates a lookup command
func NewLookupCommand(config LookupConfig, logger *zap.SugaredLogger) *LookupCommand {
	return &LookupCommand{config: config, logger: logger}
}

// Execute runs the lookup
func (c *LookupCommand) Execute(ctx context.Context) error {
	if c.config.Identifier == "" {
		return errors.New("must specify -lot identifier")
	}

	store, db, err := openStore(c.config.DatabasePath, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := services.NewReconciliationService(
		store.Lots(), store.ProductionLogs(), store.ShippingLogs())

	var view *dto.ConsolidatedLotView
	if c.config.Exact {
		view, err = svc.FindByExactIdentifier(ctx, c.config.Identifier)
	} else {
		view, err = svc.FindByFuzzyIdentifier(ctx, c.config.Identifier)
	}
	if err != nil {
		return errors.Wrapf(err, "looking up lot %q", c.config.Identifier)
	}
	if view == nil {
		fmt.Printf("No lot found for %q\n", c.config.Identifier)
		return nil
	}

	return output.RenderLotView(os.Stdout, view, c.config.Format)
}
