package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

// TrendDirection is the qualitative movement of a defect type's frequency
// between two equal-length adjacent periods
type TrendDirection string

const (
	TrendNew  TrendDirection = "NEW"
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
	TrendFlat TrendDirection = "FLAT"
)

// LineRanking is one row of the defects-per-line ranking. Rank is a dense
// 1-based ordinal over the returned list (no rank sharing on ties).
type LineRanking struct {
	LineName    string `json:"lineName"`
	DefectCount int64  `json:"defectCount"`
	Rank        int    `json:"rank"`
}

// ShippingRisk is a shipped lot paired with one of its flagged defects
type ShippingRisk struct {
	LotIdentifier string            `json:"lotIdentifier"`
	CustomerName  string            `json:"customerName"`
	ShipDate      time.Time         `json:"shipDate"`
	DefectName    string            `json:"defectName"`
	Severity      entities.Severity `json:"severity"`
}

// DefectTrend compares a defect type's current-period frequency against
// the immediately preceding period of the same length
type DefectTrend struct {
	DefectName    string            `json:"defectName"`
	Severity      entities.Severity `json:"severity"`
	CurrentCount  int64             `json:"currentCount"`
	PreviousCount int64             `json:"previousCount"`
	Direction     TrendDirection    `json:"direction"`
}

// OrphanedLotStatus is the fixed status stamped on every orphaned lot.
// Orphans are surfaced, never excluded.
const OrphanedLotStatus = "Orphaned Data"

// OrphanedLot is a lot with no production and no shipping records
type OrphanedLot struct {
	LotIdentifier string `json:"lotIdentifier"`
	PartNumber    string `json:"partNumber"`
	Status        string `json:"status"`
}

// LineConflict is a lot whose production logs span multiple distinct lines
type LineConflict struct {
	LotIdentifier string   `json:"lotIdentifier"`
	LineNames     []string `json:"lineNames"`
	LineCount     int      `json:"lineCount"`
}

// Dashboard bundles every section of one time-windowed report
type Dashboard struct {
	ReportID      uuid.UUID      `json:"reportId"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	LineRankings  []LineRanking  `json:"lineRankings"`
	ShippingRisks []ShippingRisk `json:"shippingRisks"`
	DefectTrends  []DefectTrend  `json:"defectTrends"`
	OrphanedLots  []OrphanedLot  `json:"orphanedLots"`
	LineConflicts []LineConflict `json:"lineConflicts"`
	PeriodStart   time.Time      `json:"periodStart"`
	PeriodEnd     time.Time      `json:"periodEnd"`
	TimeGrouping  string         `json:"timeGrouping"`
}
