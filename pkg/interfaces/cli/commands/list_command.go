package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/application/services"
	"github.com/vsinha/lottrack/pkg/interfaces/cli/output"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	DatabasePath string
	Format       string
}

// ListCommand prints the consolidated view of every lot
type ListCommand struct {
	config ListConfig
	logger *zap.SugaredLogger
}

// NewListCommand creates a list command
func NewListCommand(config ListConfig, logger *zap.SugaredLogger) *ListCommand {
	return &ListCommand{config: config, logger: logger}
}

// Execute runs the listing
func (c *ListCommand) Execute(ctx context.Context) error {
	store, db, err := openStore(c.config.DatabasePath, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := services.NewReconciliationService(
		store.Lots(), store.ProductionLogs(), store.ShippingLogs())

	views, err := svc.ListLots(ctx)
	if err != nil {
		return errors.Wrap(err, "listing lots")
	}
	if len(views) == 0 {
		fmt.Println("No lots recorded")
		return nil
	}

	return output.RenderLotList(os.Stdout, views, c.config.Format)
}
