package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SourceRef points back at the imported spreadsheet row a record came
// from. Empty File means the record was entered manually.
type SourceRef struct {
	File string `json:"file"`
	Row  int    `json:"row"`
}

// ConsolidatedLotView joins a lot's production, quality, and shipping data
// into one answer for "what happened to this lot?".
//
// ProductionLines holds distinct line names in first-appearance order; a
// lot with more than one entry here is a data conflict. HasIssue is true
// if any production log was flagged, whether or not a defect type was
// recorded. Yield is UnitsActual/UnitsPlanned (zero when nothing was
// planned).
type ConsolidatedLotView struct {
	LotIdentifier string    `json:"lotIdentifier"`
	PartNumber    string    `json:"partNumber"`
	CreatedDate   time.Time `json:"createdDate"`

	ProductionLines      []string        `json:"productionLines"`
	TotalUnitsPlanned    int             `json:"totalUnitsPlanned"`
	TotalUnitsActual     int             `json:"totalUnitsActual"`
	TotalDowntimeMinutes int             `json:"totalDowntimeMinutes"`
	Yield                decimal.Decimal `json:"yield"`

	DefectsFound []string `json:"defectsFound"`
	HasIssue     bool     `json:"hasIssue"`

	ShippingStatus string     `json:"shippingStatus"`
	ShipDate       *time.Time `json:"shipDate,omitempty"`
	CustomerName   string     `json:"customerName,omitempty"`

	Source SourceRef `json:"source"`
}

// LineAttribution renders the production line(s) for display: "N/A" when
// no production was logged, the line name when unambiguous, and an
// explicit conflict marker when the logs disagree.
func (v *ConsolidatedLotView) LineAttribution() string {
	switch len(v.ProductionLines) {
	case 0:
		return "N/A"
	case 1:
		return v.ProductionLines[0]
	default:
		return "Multiple (Conflict): " + strings.Join(v.ProductionLines, ", ")
	}
}

// DefectSummary renders the flagged defects for display. A flagged lot
// with no recorded defect type still reads as an issue.
func (v *ConsolidatedLotView) DefectSummary() string {
	if len(v.DefectsFound) > 0 {
		return strings.Join(v.DefectsFound, ", ")
	}
	if v.HasIssue {
		return "Issue flagged (unclassified)"
	}
	return "None"
}
