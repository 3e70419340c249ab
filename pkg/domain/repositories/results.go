package repositories

import (
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

// Named aggregation-result rows. Each query returns a typed struct rather
// than an untyped tuple, so the shape is fixed at the store boundary.

// LineDefectCount is one row of the defects-per-line aggregation
type LineDefectCount struct {
	LineName    string
	DefectCount int64
}

// DefectTypeCount is one row of the defects-per-type aggregation
type DefectTypeCount struct {
	DefectName  string
	Severity    entities.Severity
	DefectCount int64
}

// MultiLineLot identifies a lot whose production logs span more than one
// distinct production line. LineNames is in first-appearance order.
type MultiLineLot struct {
	LotIdentifier string
	LineNames     []string
}

// ShippedDefectRow joins a shipped lot with one of its flagged defects
type ShippedDefectRow struct {
	LotIdentifier string
	CustomerName  string
	ShipDate      time.Time
	DefectName    string
	Severity      entities.Severity
}
