package entities

import (
	"fmt"
	"time"
)

// ProductionLog is one row of the manufacturing floor's activity log.
//
// Defect is nil when no defect type was recorded. A log with
// IssueFlag == true and Defect == nil is still a flagged issue — data
// entry sometimes omits the classification, and downstream reporting must
// not treat such rows as defect-free.
//
// SourceFile/SourceRow point back at the imported spreadsheet row so
// analysts can double-check any number on the dashboard.
type ProductionLog struct {
	ID              int64
	LotID           int64
	Line            ProductionLine
	Defect          *DefectType
	Date            time.Time
	Shift           string
	UnitsPlanned    int
	UnitsActual     int
	DowntimeMinutes int
	IssueFlag       bool
	SupervisorNotes string
	SourceFile      string
	SourceRow       int
}

// NewProductionLog creates a validated ProductionLog
func NewProductionLog(
	lotID int64,
	line ProductionLine,
	date time.Time,
	unitsPlanned, unitsActual, downtimeMinutes int,
) (*ProductionLog, error) {
	if lotID <= 0 {
		return nil, fmt.Errorf("production log requires a lot reference")
	}
	if line.Name == "" {
		return nil, fmt.Errorf("production line name cannot be empty")
	}
	if unitsPlanned < 0 {
		return nil, fmt.Errorf("units planned cannot be negative, got %d", unitsPlanned)
	}
	if unitsActual < 0 {
		return nil, fmt.Errorf("units actual cannot be negative, got %d", unitsActual)
	}
	if downtimeMinutes < 0 {
		return nil, fmt.Errorf("downtime minutes cannot be negative, got %d", downtimeMinutes)
	}

	return &ProductionLog{
		LotID:           lotID,
		Line:            line,
		Date:            date,
		UnitsPlanned:    unitsPlanned,
		UnitsActual:     unitsActual,
		DowntimeMinutes: downtimeMinutes,
	}, nil
}
