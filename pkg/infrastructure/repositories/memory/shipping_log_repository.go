package memory

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// ShippingLogRepository is the shipping-log view over a shared in-memory
// Store
type ShippingLogRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.ShippingLogRepository = (*ShippingLogRepository)(nil)

// Insert appends a shipping log row and returns its ID
func (r *ShippingLogRepository) Insert(log *entities.ShippingLog) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.lotExists(log.LotID) {
		return 0, errors.Newf("shipping log references unknown lot id %d", log.LotID)
	}

	r.s.nextShipID++
	stored := *log
	stored.ID = r.s.nextShipID
	r.s.shipping[log.LotID] = append(r.s.shipping[log.LotID], &stored)
	return stored.ID, nil
}

// FindByLot returns all shipping logs for a lot
func (r *ShippingLogRepository) FindByLot(lotID int64) ([]*entities.ShippingLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*entities.ShippingLog, 0, len(r.s.shipping[lotID]))
	for _, sl := range r.s.shipping[lotID] {
		l := *sl
		result = append(result, &l)
	}
	return result, nil
}

// ExistsShipped reports whether the lot has any log with status Shipped
func (r *ShippingLogRepository) ExistsShipped(lotID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sl := range r.s.shipping[lotID] {
		if sl.Status == entities.StatusShipped {
			return true, nil
		}
	}
	return false, nil
}

// FindShippedLotsWithDefects joins shipped shipping logs with the lot's
// flagged, defect-typed production logs, ship date descending
func (r *ShippingLogRepository) FindShippedLotsWithDefects() ([]repositories.ShippedDefectRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []repositories.ShippedDefectRow
	for _, lot := range r.s.lots {
		for _, sl := range r.s.shipping[lot.ID] {
			if sl.Status != entities.StatusShipped {
				continue
			}
			for _, pl := range r.s.production[lot.ID] {
				if !pl.IssueFlag || pl.Defect == nil {
					continue
				}
				rows = append(rows, repositories.ShippedDefectRow{
					LotIdentifier: lot.LotIdentifier,
					CustomerName:  sl.Customer.Name,
					ShipDate:      sl.ShipDate,
					DefectName:    pl.Defect.Name,
					Severity:      pl.Defect.Severity,
				})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ShipDate.After(rows[j].ShipDate)
	})
	return rows, nil
}
