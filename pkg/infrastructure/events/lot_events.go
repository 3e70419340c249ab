package events

import (
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

const (
	LotCreatedEvent = "lot.created"

	ProductionLogImportedEvent = "production_log.imported"
	ShippingLogImportedEvent   = "shipping_log.imported"
	ImportCompletedEvent       = "import.completed"

	ReportBuiltEvent = "report.built"
)

// LotCreated records a new lot entering the system, usually during a
// spreadsheet import
type LotCreated struct {
	Lot        entities.Lot `json:"lot"`
	SourceFile string       `json:"source_file,omitempty"`
}

type ProductionLogImported struct {
	LotIdentifier string `json:"lot_identifier"`
	LineName      string `json:"line_name"`
	SourceFile    string `json:"source_file"`
	SourceRow     int    `json:"source_row"`
}

type ShippingLogImported struct {
	LotIdentifier string `json:"lot_identifier"`
	CustomerName  string `json:"customer_name"`
	SourceFile    string `json:"source_file"`
	SourceRow     int    `json:"source_row"`
}

// ImportCompleted summarizes one import run over a single file
type ImportCompleted struct {
	SourceFile  string `json:"source_file"`
	RowsRead    int    `json:"rows_read"`
	LotsCreated int    `json:"lots_created"`
	LotsMatched int    `json:"lots_matched"`
}

// ReportBuilt records a dashboard assembly
type ReportBuilt struct {
	ReportID     string    `json:"report_id"`
	TimeGrouping string    `json:"time_grouping"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
}

func NewLotCreatedEvent(lot entities.Lot, sourceFile string) Event {
	return NewEvent(LotCreatedEvent, lot.NormalizedID, LotCreated{Lot: lot, SourceFile: sourceFile})
}

func NewProductionLogImportedEvent(lotIdentifier string, log *entities.ProductionLog) Event {
	return NewEvent(ProductionLogImportedEvent, lotIdentifier, ProductionLogImported{
		LotIdentifier: lotIdentifier,
		LineName:      log.Line.Name,
		SourceFile:    log.SourceFile,
		SourceRow:     log.SourceRow,
	})
}

func NewShippingLogImportedEvent(lotIdentifier string, log *entities.ShippingLog) Event {
	return NewEvent(ShippingLogImportedEvent, lotIdentifier, ShippingLogImported{
		LotIdentifier: lotIdentifier,
		CustomerName:  log.Customer.Name,
		SourceFile:    log.SourceFile,
		SourceRow:     log.SourceRow,
	})
}

func NewImportCompletedEvent(summary ImportCompleted) Event {
	return NewEvent(ImportCompletedEvent, summary.SourceFile, summary)
}

func NewReportBuiltEvent(reportID, timeGrouping string, periodStart, periodEnd time.Time) Event {
	return NewEvent(ReportBuiltEvent, reportID, ReportBuilt{
		ReportID:     reportID,
		TimeGrouping: timeGrouping,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	})
}
