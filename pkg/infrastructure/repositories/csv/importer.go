// Package csv imports production and shipping log spreadsheets. Each row
// is resolved to a lot by canonical identifier, creating the lot on first
// sight, so that "LOT-001", "LOT 001", and "lot_001" all land on the same
// record.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/identity"
	"github.com/vsinha/lottrack/pkg/infrastructure/events"
)

// LotStore is the slice of lot storage the importer needs
type LotStore interface {
	FindByNormalizedID(normalizedID string) (*entities.Lot, error)
	InsertLot(lotIdentifier, partNumber string) (*entities.Lot, error)
}

// ProductionLogStore accepts imported production log rows
type ProductionLogStore interface {
	Insert(log *entities.ProductionLog) (int64, error)
}

// ShippingLogStore accepts imported shipping log rows
type ShippingLogStore interface {
	Insert(log *entities.ShippingLog) (int64, error)
}

// Summary reports what one import run did
type Summary struct {
	SourceFile  string
	RowsRead    int
	LotsCreated int
	LotsMatched int
}

// Importer loads log spreadsheets into a store
type Importer struct {
	lots       LotStore
	production ProductionLogStore
	shipping   ShippingLogStore
	events     events.EventStore
	logger     *zap.SugaredLogger
}

// NewImporter creates an importer. The event store and logger may be nil.
func NewImporter(
	lots LotStore,
	production ProductionLogStore,
	shipping ShippingLogStore,
	eventStore events.EventStore,
	logger *zap.SugaredLogger,
) *Importer {
	return &Importer{
		lots:       lots,
		production: production,
		shipping:   shipping,
		events:     eventStore,
		logger:     logger,
	}
}

var productionHeader = []string{
	"lot_identifier", "part_number", "production_line", "department",
	"production_date", "shift", "units_planned", "units_actual",
	"downtime_minutes", "defect_code", "defect_name", "severity",
	"issue_flag", "supervisor_notes",
}

var shippingHeader = []string{
	"lot_identifier", "part_number", "customer", "region", "ship_date",
	"sales_order", "destination_state", "carrier", "bol_number",
	"tracking_number", "qty_shipped", "ship_status", "hold_reason", "notes",
}

// ImportProductionLogs loads a production log CSV. Every imported row is
// stamped with the source file name and row number for traceability.
func (imp *Importer) ImportProductionLogs(filename string) (*Summary, error) {
	records, err := readRecords(filename, productionHeader, "production")
	if err != nil {
		return nil, err
	}

	summary := &Summary{SourceFile: filepath.Base(filename)}
	for i, record := range records {
		rowNum := i + 2
		if err := imp.importProductionRow(record, summary, rowNum); err != nil {
			return nil, fmt.Errorf("production CSV row %d: %w", rowNum, err)
		}
		summary.RowsRead++
	}

	imp.finishImport(summary)
	return summary, nil
}

// ImportShippingLogs loads a shipping log CSV
func (imp *Importer) ImportShippingLogs(filename string) (*Summary, error) {
	records, err := readRecords(filename, shippingHeader, "shipping")
	if err != nil {
		return nil, err
	}

	summary := &Summary{SourceFile: filepath.Base(filename)}
	for i, record := range records {
		rowNum := i + 2
		if err := imp.importShippingRow(record, summary, rowNum); err != nil {
			return nil, fmt.Errorf("shipping CSV row %d: %w", rowNum, err)
		}
		summary.RowsRead++
	}

	imp.finishImport(summary)
	return summary, nil
}

func (imp *Importer) importProductionRow(record []string, summary *Summary, rowNum int) error {
	lot, err := imp.findOrCreateLot(record[0], record[1], summary)
	if err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", record[4])
	if err != nil {
		return fmt.Errorf("invalid production_date format: %s (expected YYYY-MM-DD)", record[4])
	}
	unitsPlanned, err := parseCount("units_planned", record[6])
	if err != nil {
		return err
	}
	unitsActual, err := parseCount("units_actual", record[7])
	if err != nil {
		return err
	}
	downtime, err := parseCount("downtime_minutes", record[8])
	if err != nil {
		return err
	}

	line := entities.ProductionLine{Name: record[2], Department: record[3]}
	log, err := entities.NewProductionLog(lot.ID, line, date, unitsPlanned, unitsActual, downtime)
	if err != nil {
		return err
	}

	log.Shift = record[5]
	log.IssueFlag = parseFlag(record[12])
	log.SupervisorNotes = record[13]
	log.SourceFile = summary.SourceFile
	log.SourceRow = rowNum

	if record[9] != "" || record[10] != "" {
		severity, err := parseSeverity(record[11])
		if err != nil {
			return err
		}
		log.Defect = &entities.DefectType{
			Code:     record[9],
			Name:     record[10],
			Severity: severity,
		}
	}

	if _, err := imp.production.Insert(log); err != nil {
		return err
	}
	imp.emit(events.NewProductionLogImportedEvent(lot.LotIdentifier, log))
	return nil
}

func (imp *Importer) importShippingRow(record []string, summary *Summary, rowNum int) error {
	lot, err := imp.findOrCreateLot(record[0], record[1], summary)
	if err != nil {
		return err
	}

	shipDate, err := time.Parse("2006-01-02", record[4])
	if err != nil {
		return fmt.Errorf("invalid ship_date format: %s (expected YYYY-MM-DD)", record[4])
	}
	qtyShipped, err := parseCount("qty_shipped", record[10])
	if err != nil {
		return err
	}
	status, err := parseShipStatus(record[11])
	if err != nil {
		return err
	}

	customer := entities.Customer{Name: record[2], Region: record[3]}
	log, err := entities.NewShippingLog(lot.ID, customer, shipDate, qtyShipped, status)
	if err != nil {
		return err
	}

	log.SalesOrderNumber = record[5]
	log.DestinationState = record[6]
	log.Carrier = record[7]
	log.BOLNumber = record[8]
	log.TrackingNumber = record[9]
	log.HoldReason = record[12]
	log.Notes = record[13]
	log.SourceFile = summary.SourceFile
	log.SourceRow = rowNum

	if _, err := imp.shipping.Insert(log); err != nil {
		return err
	}
	imp.emit(events.NewShippingLogImportedEvent(lot.LotIdentifier, log))
	return nil
}

// findOrCreateLot resolves a row's lot by canonical identifier, creating
// it with the row's spelling if no equivalent lot exists yet
func (imp *Importer) findOrCreateLot(lotIdentifier, partNumber string, summary *Summary) (*entities.Lot, error) {
	key := identity.Normalize(lotIdentifier)
	if key == "" {
		return nil, fmt.Errorf("lot_identifier cannot be empty")
	}

	lot, err := imp.lots.FindByNormalizedID(key)
	if err != nil {
		return nil, err
	}
	if lot != nil {
		summary.LotsMatched++
		return lot, nil
	}

	lot, err = imp.lots.InsertLot(strings.TrimSpace(lotIdentifier), partNumber)
	if err != nil {
		return nil, err
	}
	summary.LotsCreated++
	imp.emit(events.NewLotCreatedEvent(*lot, summary.SourceFile))

	if imp.logger != nil {
		imp.logger.Debugw("Lot created from import",
			"lot", lot.LotIdentifier,
			"normalized", lot.NormalizedID,
			"file", summary.SourceFile,
		)
	}
	return lot, nil
}

func (imp *Importer) finishImport(summary *Summary) {
	imp.emit(events.NewImportCompletedEvent(events.ImportCompleted{
		SourceFile:  summary.SourceFile,
		RowsRead:    summary.RowsRead,
		LotsCreated: summary.LotsCreated,
		LotsMatched: summary.LotsMatched,
	}))

	if imp.logger != nil {
		imp.logger.Infow("Import complete",
			"file", summary.SourceFile,
			"rows", summary.RowsRead,
			"lots_created", summary.LotsCreated,
			"lots_matched", summary.LotsMatched,
		)
	}
}

func (imp *Importer) emit(event events.Event) {
	if imp.events == nil {
		return
	}
	// The in-memory store never fails; a persistent one logs via its own
	// handler path.
	_ = imp.events.AppendEvent(event.StreamID(), event)
}

func readRecords(filename string, expectedHeader []string, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d",
				kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseCount(column, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return n, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func parseSeverity(s string) (entities.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return entities.SeverityCritical, nil
	case "major":
		return entities.SeverityMajor, nil
	case "minor":
		return entities.SeverityMinor, nil
	default:
		return "", fmt.Errorf("invalid severity: %s (expected: Critical, Major, or Minor)", s)
	}
}

func parseShipStatus(s string) (entities.ShipStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shipped":
		return entities.StatusShipped, nil
	case "onhold", "on hold", "on_hold":
		return entities.StatusOnHold, nil
	case "partial":
		return entities.StatusPartial, nil
	default:
		return "", fmt.Errorf("invalid ship_status: %s (expected: Shipped, OnHold, or Partial)", s)
	}
}
