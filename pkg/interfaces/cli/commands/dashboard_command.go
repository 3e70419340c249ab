package commands

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/application/services"
	"github.com/vsinha/lottrack/pkg/infrastructure/events"
	"github.com/vsinha/lottrack/pkg/interfaces/cli/output"
)

// DashboardConfig holds configuration for the dashboard command
type DashboardConfig struct {
	DatabasePath string
	Grouping     string
	Format       string
}

// DashboardCommand builds and renders a time-windowed dashboard report
type DashboardCommand struct {
	config DashboardConfig
	logger *zap.SugaredLogger
}

// NewDashboardCommand creates a dashboard command
func NewDashboardCommand(config DashboardConfig, logger *zap.SugaredLogger) *DashboardCommand {
	return &DashboardCommand{config: config, logger: logger}
}

// Execute builds the report and writes it to stdout
func (c *DashboardCommand) Execute(ctx context.Context) error {
	store, db, err := openStore(c.config.DatabasePath, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	analytics := services.NewAnalyticsService(store.ProductionLogs(), store.ShippingLogs())
	reconciliation := services.NewReconciliationService(
		store.Lots(), store.ProductionLogs(), store.ShippingLogs())
	svc := services.NewDashboardService(analytics, reconciliation).
		WithEvents(events.NewInMemoryEventStore(c.logger))

	report, err := svc.BuildDashboard(ctx, c.config.Grouping)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}

	if c.logger != nil {
		c.logger.Infow("Dashboard built",
			"report_id", report.ReportID,
			"grouping", report.TimeGrouping,
			"period_start", report.PeriodStart,
			"period_end", report.PeriodEnd,
		)
	}

	return output.RenderDashboard(os.Stdout, report, c.config.Format)
}
