package repositories

import (
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

// ProductionLogRepository provides access to the production activity log.
// Date ranges are inclusive on both ends.
type ProductionLogRepository interface {
	// FindByLot returns all production logs for a lot.
	FindByLot(lotID int64) ([]*entities.ProductionLog, error)

	// FindByDateRange returns production logs with a date in [start, end].
	FindByDateRange(start, end time.Time) ([]*entities.ProductionLog, error)

	// FindFlaggedByLot returns the lot's logs with IssueFlag set.
	FindFlaggedByLot(lotID int64) ([]*entities.ProductionLog, error)

	// CountDefectsByLine counts issue-flagged logs per production line in
	// [start, end], highest count first. Tie order between equal counts is
	// store-dependent; the analytics layer applies a deterministic
	// secondary sort.
	CountDefectsByLine(start, end time.Time) ([]LineDefectCount, error)

	// CountDefectsByType counts issue-flagged logs per defect name and
	// severity in [start, end].
	CountDefectsByType(start, end time.Time) ([]DefectTypeCount, error)

	// FindLotsWithMultipleLines returns every lot whose production logs
	// reference two or more distinct production lines, with the line names
	// (distinctness is on the set of names, not the record count).
	FindLotsWithMultipleLines() ([]MultiLineLot, error)
}
