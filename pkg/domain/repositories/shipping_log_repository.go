package repositories

import "github.com/vsinha/lottrack/pkg/domain/entities"

// ShippingLogRepository provides access to the shipping/fulfillment log
type ShippingLogRepository interface {
	// FindByLot returns all shipping logs for a lot.
	FindByLot(lotID int64) ([]*entities.ShippingLog, error)

	// ExistsShipped reports whether the lot has at least one shipping log
	// with status Shipped.
	ExistsShipped(lotID int64) (bool, error)

	// FindShippedLotsWithDefects returns one row per (shipping log,
	// flagged production log) pair where the shipment status is Shipped
	// and the production log has IssueFlag set, ordered by ship date
	// descending. No severity filter is applied.
	FindShippedLotsWithDefects() ([]ShippedDefectRow, error)
}
