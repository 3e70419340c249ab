package testing

import (
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/infrastructure/repositories/memory"
)

// Day returns a date-valued UTC timestamp, the form every fixture uses
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Common defect types used across scenarios
var (
	SurfaceCrack = entities.DefectType{Code: "SC", Name: "Surface Crack", Severity: entities.SeverityCritical}
	EdgeBurr     = entities.DefectType{Code: "EB", Name: "Edge Burr", Severity: entities.SeverityMinor}
	WeldPorosity = entities.DefectType{Code: "WP", Name: "Weld Porosity", Severity: entities.SeverityMajor}
)

// BuildReconciliationTestData populates a fresh in-memory store with the
// standard reconciliation scenario:
//
//   - LOT-001: produced on Line 1 with a flagged Surface Crack, shipped to
//     Acme on 2026-02-10 — the canonical shipping risk.
//   - LOT-002: produced on Lines 1 and 2 — a line conflict.
//   - LOT-003: no production or shipping data — an orphan.
//   - LOT-004: produced cleanly on Line 2, on hold — in inventory.
func BuildReconciliationTestData() *memory.Store {
	store := memory.NewStore()
	lots := store.Lots()
	prod := store.ProductionLogs()
	ship := store.ShippingLogs()

	acme := entities.Customer{Name: "Acme", Region: "Midwest"}

	lot1, _ := lots.InsertLot("LOT-001", "PN-100")
	lot2, _ := lots.InsertLot("LOT-002", "PN-200")
	_, _ = lots.InsertLot("LOT-003", "PN-300")
	lot4, _ := lots.InsertLot("LOT-004", "PN-400")

	crack := SurfaceCrack
	_, _ = prod.Insert(&entities.ProductionLog{
		LotID:        lot1.ID,
		Line:         entities.ProductionLine{Name: "Line 1", Department: "Stamping"},
		Date:         Day(2026, 2, 9),
		Shift:        "A",
		UnitsPlanned: 100,
		UnitsActual:  92,
		Defect:       &crack,
		IssueFlag:    true,
		SourceFile:   "production_feb.csv",
		SourceRow:    2,
	})
	_, _ = ship.Insert(&entities.ShippingLog{
		LotID:      lot1.ID,
		Customer:   acme,
		ShipDate:   Day(2026, 2, 10),
		QtyShipped: 92,
		Status:     entities.StatusShipped,
		SourceFile: "shipping_feb.csv",
		SourceRow:  2,
	})

	_, _ = prod.Insert(&entities.ProductionLog{
		LotID: lot2.ID,
		Line:  entities.ProductionLine{Name: "Line 1", Department: "Stamping"},
		Date:  Day(2026, 2, 10),
	})
	_, _ = prod.Insert(&entities.ProductionLog{
		LotID: lot2.ID,
		Line:  entities.ProductionLine{Name: "Line 2", Department: "Welding"},
		Date:  Day(2026, 2, 11),
	})

	_, _ = prod.Insert(&entities.ProductionLog{
		LotID:        lot4.ID,
		Line:         entities.ProductionLine{Name: "Line 2", Department: "Welding"},
		Date:         Day(2026, 2, 11),
		UnitsPlanned: 50,
		UnitsActual:  50,
	})
	_, _ = ship.Insert(&entities.ShippingLog{
		LotID:      lot4.ID,
		Customer:   acme,
		ShipDate:   Day(2026, 2, 12),
		QtyShipped: 50,
		Status:     entities.StatusOnHold,
		HoldReason: "Awaiting QC release",
	})

	return store
}
