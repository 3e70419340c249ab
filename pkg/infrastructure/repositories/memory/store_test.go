package memory

import (
	"testing"
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLotRepository_InsertAndLookup(t *testing.T) {
	store := NewStore()
	lots := store.Lots()

	lot, err := lots.InsertLot("LOT-123", "PN-100")
	if err != nil {
		t.Fatalf("Failed to insert lot: %v", err)
	}
	if lot.ID == 0 {
		t.Error("Expected inserted lot to receive an ID")
	}
	if lot.NormalizedID != "LOT123" {
		t.Errorf("Expected normalized ID LOT123, got %s", lot.NormalizedID)
	}

	// Exact lookup
	found, err := lots.FindByIdentifier("LOT-123")
	if err != nil {
		t.Fatalf("Exact lookup failed: %v", err)
	}
	if found == nil || found.LotIdentifier != "LOT-123" {
		t.Fatalf("Expected to find LOT-123, got %v", found)
	}

	// Normalized lookup finds the same lot under a different spelling
	found, err = lots.FindByNormalizedID("LOT123")
	if err != nil {
		t.Fatalf("Normalized lookup failed: %v", err)
	}
	if found == nil || found.ID != lot.ID {
		t.Fatalf("Expected normalized lookup to find the same lot, got %v", found)
	}

	// Miss is soft: nil result, nil error
	found, err = lots.FindByIdentifier("LOT-999")
	if err != nil {
		t.Fatalf("Missing lookup should not error: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for missing lot, got %v", found)
	}
}

func TestLotRepository_InsertLot_RejectsEquivalentSpelling(t *testing.T) {
	store := NewStore()
	lots := store.Lots()

	if _, err := lots.InsertLot("LOT-123", "PN-100"); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := lots.InsertLot("lot 123", "PN-100"); err == nil {
		t.Error("Expected insert of an equivalent spelling to be rejected")
	}
}

func TestLotRepository_FindByNormalizedID_EmptyKeyMatchesNothing(t *testing.T) {
	store := NewStore()
	lots := store.Lots()

	if _, err := lots.InsertLot("LOT-1", "PN-1"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	found, err := lots.FindByNormalizedID("")
	if err != nil {
		t.Fatalf("Empty key lookup should not error: %v", err)
	}
	if found != nil {
		t.Errorf("Empty normalized key must match nothing, got %v", found)
	}
}

func TestLotRepository_FindOrphanedLots(t *testing.T) {
	store := NewStore()
	lots := store.Lots()
	prod := store.ProductionLogs()
	ship := store.ShippingLogs()

	orphan, _ := lots.InsertLot("LOT-ORPHAN", "PN-1")
	produced, _ := lots.InsertLot("LOT-PROD", "PN-2")
	shipped, _ := lots.InsertLot("LOT-SHIP", "PN-3")

	if _, err := prod.Insert(&entities.ProductionLog{
		LotID: produced.ID,
		Line:  entities.ProductionLine{Name: "Line 1"},
		Date:  date(2026, 2, 10),
	}); err != nil {
		t.Fatalf("Insert production log failed: %v", err)
	}
	if _, err := ship.Insert(&entities.ShippingLog{
		LotID:    shipped.ID,
		Customer: entities.Customer{Name: "Acme"},
		ShipDate: date(2026, 2, 11),
		Status:   entities.StatusOnHold,
	}); err != nil {
		t.Fatalf("Insert shipping log failed: %v", err)
	}

	orphans, err := lots.FindOrphanedLots()
	if err != nil {
		t.Fatalf("FindOrphanedLots failed: %v", err)
	}
	if len(orphans) != 1 {
		t.Fatalf("Expected exactly 1 orphan, got %d", len(orphans))
	}
	if orphans[0].LotIdentifier != orphan.LotIdentifier {
		t.Errorf("Expected orphan %s, got %s", orphan.LotIdentifier, orphans[0].LotIdentifier)
	}
}

func TestProductionLogRepository_CountDefectsByLine(t *testing.T) {
	store := NewStore()
	lots := store.Lots()
	prod := store.ProductionLogs()

	lot, _ := lots.InsertLot("LOT-1", "PN-1")

	add := func(line string, day int, flagged bool) {
		t.Helper()
		if _, err := prod.Insert(&entities.ProductionLog{
			LotID:     lot.ID,
			Line:      entities.ProductionLine{Name: line},
			Date:      date(2026, 2, day),
			IssueFlag: flagged,
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	add("Line 1", 10, true)
	add("Line 1", 11, true)
	add("Line 2", 11, true)
	add("Line 2", 12, false) // not flagged, not counted
	add("Line 3", 20, true)  // outside range

	counts, err := prod.CountDefectsByLine(date(2026, 2, 9), date(2026, 2, 15))
	if err != nil {
		t.Fatalf("CountDefectsByLine failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(counts))
	}
	if counts[0].LineName != "Line 1" || counts[0].DefectCount != 2 {
		t.Errorf("Expected Line 1 with 2 defects first, got %+v", counts[0])
	}
	if counts[1].LineName != "Line 2" || counts[1].DefectCount != 1 {
		t.Errorf("Expected Line 2 with 1 defect second, got %+v", counts[1])
	}
}

func TestProductionLogRepository_FindLotsWithMultipleLines(t *testing.T) {
	store := NewStore()
	lots := store.Lots()
	prod := store.ProductionLogs()

	conflicted, _ := lots.InsertLot("LOT-CONFLICT", "PN-1")
	clean, _ := lots.InsertLot("LOT-CLEAN", "PN-2")

	mustInsert := func(lotID int64, line string) {
		t.Helper()
		if _, err := prod.Insert(&entities.ProductionLog{
			LotID: lotID,
			Line:  entities.ProductionLine{Name: line},
			Date:  date(2026, 2, 10),
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	mustInsert(conflicted.ID, "Line A")
	mustInsert(conflicted.ID, "Line B")
	// Two records on the same line: distinctness is on the set, not the
	// record count.
	mustInsert(clean.ID, "Line A")
	mustInsert(clean.ID, "Line A")

	conflicts, err := prod.FindLotsWithMultipleLines()
	if err != nil {
		t.Fatalf("FindLotsWithMultipleLines failed: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].LotIdentifier != "LOT-CONFLICT" {
		t.Errorf("Expected LOT-CONFLICT, got %s", conflicts[0].LotIdentifier)
	}
	if len(conflicts[0].LineNames) != 2 {
		t.Errorf("Expected 2 line names, got %v", conflicts[0].LineNames)
	}
}

func TestShippingLogRepository_ExistsShipped(t *testing.T) {
	store := NewStore()
	lots := store.Lots()
	ship := store.ShippingLogs()

	held, _ := lots.InsertLot("LOT-HOLD", "PN-1")
	sent, _ := lots.InsertLot("LOT-SENT", "PN-2")

	if _, err := ship.Insert(&entities.ShippingLog{
		LotID: held.ID, Customer: entities.Customer{Name: "Acme"},
		ShipDate: date(2026, 2, 10), Status: entities.StatusOnHold,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := ship.Insert(&entities.ShippingLog{
		LotID: sent.ID, Customer: entities.Customer{Name: "Acme"},
		ShipDate: date(2026, 2, 10), Status: entities.StatusShipped,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	shipped, err := ship.ExistsShipped(held.ID)
	if err != nil {
		t.Fatalf("ExistsShipped failed: %v", err)
	}
	if shipped {
		t.Error("Lot with only OnHold records must not count as shipped")
	}

	shipped, err = ship.ExistsShipped(sent.ID)
	if err != nil {
		t.Fatalf("ExistsShipped failed: %v", err)
	}
	if !shipped {
		t.Error("Lot with a Shipped record must count as shipped")
	}
}

func TestShippingLogRepository_FindShippedLotsWithDefects(t *testing.T) {
	store := NewStore()
	lots := store.Lots()
	prod := store.ProductionLogs()
	ship := store.ShippingLogs()

	lot, _ := lots.InsertLot("LOT-001", "PN-1")
	crack := &entities.DefectType{Code: "SC", Name: "Surface Crack", Severity: entities.SeverityCritical}

	if _, err := prod.Insert(&entities.ProductionLog{
		LotID:     lot.ID,
		Line:      entities.ProductionLine{Name: "Line 1"},
		Date:      date(2026, 2, 9),
		Defect:    crack,
		IssueFlag: true,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := ship.Insert(&entities.ShippingLog{
		LotID:    lot.ID,
		Customer: entities.Customer{Name: "Acme"},
		ShipDate: date(2026, 2, 10),
		Status:   entities.StatusShipped,
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := ship.FindShippedLotsWithDefects()
	if err != nil {
		t.Fatalf("FindShippedLotsWithDefects failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 risk row, got %d", len(rows))
	}
	row := rows[0]
	if row.LotIdentifier != "LOT-001" || row.CustomerName != "Acme" ||
		!row.ShipDate.Equal(date(2026, 2, 10)) || row.DefectName != "Surface Crack" {
		t.Errorf("Unexpected risk row: %+v", row)
	}
}
