// Demonstrates the reconciliation and reporting flow end to end against
// the in-memory store: register lots, log production and shipping
// activity, then look a lot up fuzzily and build the weekly dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/lottrack/pkg/application/services"
	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/lottrack/pkg/interfaces/cli/output"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	store := memory.NewStore()
	lots := store.Lots()

	heatLot, err := lots.InsertLot("HEAT-4401", "COIL-STEEL-16GA")
	if err != nil {
		return err
	}
	// No activity on purpose; the dashboard should flag it as orphaned.
	if _, err := lots.InsertLot("HEAT-9999", "PLATE-STEEL-10MM"); err != nil {
		return err
	}

	line := entities.ProductionLine{Name: "Hot Mill 2", Department: "Rolling"}
	log, err := entities.NewProductionLog(heatLot.ID, line, day(2026, 2, 9), 200, 188, 45)
	if err != nil {
		return err
	}
	log.IssueFlag = true
	log.Defect = &entities.DefectType{
		Code: "SC", Name: "Surface Crack", Severity: entities.SeverityCritical,
	}
	if _, err := store.ProductionLogs().Insert(log); err != nil {
		return err
	}

	ship, err := entities.NewShippingLog(
		heatLot.ID,
		entities.Customer{Name: "Acme Fabrication", Region: "Midwest"},
		day(2026, 2, 10), 188, entities.StatusShipped)
	if err != nil {
		return err
	}
	if _, err := store.ShippingLogs().Insert(ship); err != nil {
		return err
	}

	reconciliation := services.NewReconciliationService(
		lots, store.ProductionLogs(), store.ShippingLogs())

	// The shipping office's spelling still finds the lot.
	view, err := reconciliation.FindByFuzzyIdentifier(ctx, "heat 4401")
	if err != nil {
		return err
	}
	if err := output.RenderLotView(os.Stdout, view, output.FormatText); err != nil {
		return err
	}
	fmt.Println()

	analytics := services.NewAnalyticsService(store.ProductionLogs(), store.ShippingLogs())
	dashboards := services.NewDashboardService(analytics, reconciliation).
		WithClock(func() time.Time { return day(2026, 2, 11) })

	report, err := dashboards.BuildDashboard(ctx, "WEEKLY")
	if err != nil {
		return err
	}
	return output.RenderDashboard(os.Stdout, report, output.FormatText)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
