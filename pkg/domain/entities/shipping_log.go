package entities

import (
	"fmt"
	"time"
)

// ShipStatus is the fulfillment state recorded on a shipping log row
type ShipStatus string

const (
	StatusShipped ShipStatus = "Shipped"
	StatusOnHold  ShipStatus = "OnHold"
	StatusPartial ShipStatus = "Partial"
)

// Lot-level shipping statuses derived from the full shipping log set.
// LotShipped requires an actual "Shipped" record; OnHold and Partial rows
// leave the lot in inventory.
const (
	LotShipped     = "Shipped"
	LotInInventory = "In Inventory"
)

// ShippingLog is one row of the fulfillment/logistics log
type ShippingLog struct {
	ID               int64
	LotID            int64
	Customer         Customer
	ShipDate         time.Time
	SalesOrderNumber string
	DestinationState string
	Carrier          string
	BOLNumber        string
	TrackingNumber   string
	QtyShipped       int
	Status           ShipStatus
	HoldReason       string
	Notes            string
	SourceFile       string
	SourceRow        int
}

// NewShippingLog creates a validated ShippingLog
func NewShippingLog(
	lotID int64,
	customer Customer,
	shipDate time.Time,
	qtyShipped int,
	status ShipStatus,
) (*ShippingLog, error) {
	if lotID <= 0 {
		return nil, fmt.Errorf("shipping log requires a lot reference")
	}
	if customer.Name == "" {
		return nil, fmt.Errorf("customer name cannot be empty")
	}
	if qtyShipped < 0 {
		return nil, fmt.Errorf("quantity shipped cannot be negative, got %d", qtyShipped)
	}
	switch status {
	case StatusShipped, StatusOnHold, StatusPartial:
	default:
		return nil, fmt.Errorf("unknown ship status %q", status)
	}

	return &ShippingLog{
		LotID:      lotID,
		Customer:   customer,
		ShipDate:   shipDate,
		QtyShipped: qtyShipped,
		Status:     status,
	}, nil
}

// DeriveShippingStatus computes a lot's shipping status from its full
// shipping log set. The lot is "Shipped" iff at least one record has
// status Shipped, regardless of ship date; OnHold and Partial records do
// not count. No records means "In Inventory". Pure function, no caching.
func DeriveShippingStatus(logs []*ShippingLog) string {
	for _, l := range logs {
		if l.Status == StatusShipped {
			return LotShipped
		}
	}
	return LotInInventory
}
