package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/vsinha/lottrack/pkg/application/dto"
	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/identity"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// ReconciliationService assembles a single consistent view of a lot across
// the production, shipping, and quality logs, and surfaces data-quality
// anomalies (orphaned lots, multi-line conflicts).
//
// The service is stateless between calls: every operation is a pure
// read-and-compute over the injected repositories. A lookup miss is a soft
// (nil, nil) result; store failures propagate wrapped.
type ReconciliationService struct {
	lots       repositories.LotRepository
	production repositories.ProductionLogRepository
	shipping   repositories.ShippingLogRepository
}

// NewReconciliationService creates a reconciliation service over the given
// repositories
func NewReconciliationService(
	lots repositories.LotRepository,
	production repositories.ProductionLogRepository,
	shipping repositories.ShippingLogRepository,
) *ReconciliationService {
	return &ReconciliationService{
		lots:       lots,
		production: production,
		shipping:   shipping,
	}
}

// FindByExactIdentifier looks up a lot by its exact original identifier
// and returns its consolidated view, or (nil, nil) if no lot matches.
func (s *ReconciliationService) FindByExactIdentifier(
	ctx context.Context,
	lotIdentifier string,
) (*dto.ConsolidatedLotView, error) {
	lot, err := s.lots.FindByIdentifier(lotIdentifier)
	if err != nil {
		return nil, errors.Wrap(err, "exact lot lookup")
	}
	if lot == nil {
		return nil, nil
	}
	return s.BuildConsolidatedView(ctx, lot)
}

// FindByFuzzyIdentifier normalizes the search term and looks it up against
// the stored canonical identifiers, so "lot 123" finds the lot recorded as
// "LOT-123". A term that normalizes to nothing matches nothing.
func (s *ReconciliationService) FindByFuzzyIdentifier(
	ctx context.Context,
	rawQuery string,
) (*dto.ConsolidatedLotView, error) {
	normalized := identity.Normalize(rawQuery)
	if normalized == "" {
		return nil, nil
	}

	lot, err := s.lots.FindByNormalizedID(normalized)
	if err != nil {
		return nil, errors.Wrap(err, "fuzzy lot lookup")
	}
	if lot == nil {
		return nil, nil
	}
	return s.BuildConsolidatedView(ctx, lot)
}

// CreateLot registers a newly sighted lot identifier. The normalized key
// is computed and persisted in the same insert so the lot can never exist
// without it.
func (s *ReconciliationService) CreateLot(
	ctx context.Context,
	lotIdentifier, partNumber string,
) (*entities.Lot, error) {
	if lotIdentifier == "" {
		return nil, errors.New("lot identifier cannot be empty")
	}
	if partNumber == "" {
		return nil, errors.New("part number cannot be empty")
	}

	lot, err := s.lots.InsertLot(lotIdentifier, partNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "creating lot %q", lotIdentifier)
	}
	return lot, nil
}

// BuildConsolidatedView joins the lot's production, quality, and shipping
// data into one view.
func (s *ReconciliationService) BuildConsolidatedView(
	ctx context.Context,
	lot *entities.Lot,
) (*dto.ConsolidatedLotView, error) {
	prodLogs, err := s.production.FindByLot(lot.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "production logs for lot %q", lot.LotIdentifier)
	}
	shipLogs, err := s.shipping.FindByLot(lot.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "shipping logs for lot %q", lot.LotIdentifier)
	}

	view := &dto.ConsolidatedLotView{
		LotIdentifier: lot.LotIdentifier,
		PartNumber:    lot.PartNumber,
		CreatedDate:   lot.CreatedDate,
	}

	// Distinct line names, first-appearance order.
	seenLines := make(map[string]bool)
	seenDefects := make(map[string]bool)
	for _, pl := range prodLogs {
		if !seenLines[pl.Line.Name] {
			seenLines[pl.Line.Name] = true
			view.ProductionLines = append(view.ProductionLines, pl.Line.Name)
		}

		view.TotalUnitsPlanned += pl.UnitsPlanned
		view.TotalUnitsActual += pl.UnitsActual
		view.TotalDowntimeMinutes += pl.DowntimeMinutes

		// A flagged log counts as an issue even with no defect type
		// recorded.
		if pl.IssueFlag {
			view.HasIssue = true
			if pl.Defect != nil && !seenDefects[pl.Defect.Name] {
				seenDefects[pl.Defect.Name] = true
				view.DefectsFound = append(view.DefectsFound, pl.Defect.Name)
			}
		}
	}

	if view.TotalUnitsPlanned > 0 {
		view.Yield = decimal.NewFromInt(int64(view.TotalUnitsActual)).
			Div(decimal.NewFromInt(int64(view.TotalUnitsPlanned)))
	}

	view.ShippingStatus = entities.DeriveShippingStatus(shipLogs)
	if view.ShippingStatus == entities.LotShipped {
		for _, sl := range shipLogs {
			if sl.Status == entities.StatusShipped {
				shipDate := sl.ShipDate
				view.ShipDate = &shipDate
				view.CustomerName = sl.Customer.Name
				break
			}
		}
	}

	// Source traceability: first production log wins, then first shipping
	// log. A lot with only shipping data traces to the shipping record.
	if len(prodLogs) > 0 {
		view.Source = dto.SourceRef{File: prodLogs[0].SourceFile, Row: prodLogs[0].SourceRow}
	} else if len(shipLogs) > 0 {
		view.Source = dto.SourceRef{File: shipLogs[0].SourceFile, Row: shipLogs[0].SourceRow}
	}

	return view, nil
}

// ListLots returns the consolidated view of every lot, in insertion
// order. Orphans are included with their empty sections.
func (s *ReconciliationService) ListLots(ctx context.Context) ([]*dto.ConsolidatedLotView, error) {
	lots, err := s.lots.FindAll()
	if err != nil {
		return nil, errors.Wrap(err, "listing lots")
	}

	views := make([]*dto.ConsolidatedLotView, 0, len(lots))
	for _, lot := range lots {
		view, err := s.BuildConsolidatedView(ctx, lot)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// FindOrphanedLots returns every lot with no production and no shipping
// records, each stamped with the fixed "Orphaned Data" status. A join-miss
// is a reportable data fact, never something to drop.
func (s *ReconciliationService) FindOrphanedLots(ctx context.Context) ([]dto.OrphanedLot, error) {
	orphans, err := s.lots.FindOrphanedLots()
	if err != nil {
		return nil, errors.Wrap(err, "orphaned lot scan")
	}

	result := make([]dto.OrphanedLot, 0, len(orphans))
	for _, lot := range orphans {
		result = append(result, dto.OrphanedLot{
			LotIdentifier: lot.LotIdentifier,
			PartNumber:    lot.PartNumber,
			Status:        dto.OrphanedLotStatus,
		})
	}
	return result, nil
}

// FindLineConflicts returns every lot whose production logs reference two
// or more distinct production lines. The line names are carried for manual
// review. Repeated logs on the same line are not a conflict.
func (s *ReconciliationService) FindLineConflicts(ctx context.Context) ([]dto.LineConflict, error) {
	rows, err := s.production.FindLotsWithMultipleLines()
	if err != nil {
		return nil, errors.Wrap(err, "line conflict scan")
	}

	result := make([]dto.LineConflict, 0, len(rows))
	for _, row := range rows {
		result = append(result, dto.LineConflict{
			LotIdentifier: row.LotIdentifier,
			LineNames:     row.LineNames,
			LineCount:     len(row.LineNames),
		})
	}
	return result, nil
}
