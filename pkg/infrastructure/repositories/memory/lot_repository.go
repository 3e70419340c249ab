package memory

import (
	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// LotRepository is the lot view over a shared in-memory Store
type LotRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.LotRepository = (*LotRepository)(nil)

// FindByIdentifier returns the lot with the exact original identifier, or
// (nil, nil) if absent
func (r *LotRepository) FindByIdentifier(lotIdentifier string) (*entities.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx, ok := r.s.byIdentifier[lotIdentifier]
	if !ok {
		return nil, nil
	}
	lot := *r.s.lots[idx]
	return &lot, nil
}

// FindByNormalizedID returns the lot with the given canonical identifier,
// or (nil, nil) if absent. An empty key matches nothing.
func (r *LotRepository) FindByNormalizedID(normalizedID string) (*entities.Lot, error) {
	if normalizedID == "" {
		return nil, nil
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	idx, ok := r.s.byNormalized[normalizedID]
	if !ok {
		return nil, nil
	}
	lot := *r.s.lots[idx]
	return &lot, nil
}

// FindAll returns every lot in insertion order
func (r *LotRepository) FindAll() ([]*entities.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*entities.Lot, 0, len(r.s.lots))
	for _, lot := range r.s.lots {
		l := *lot
		result = append(result, &l)
	}
	return result, nil
}

// FindOrphanedLots returns every lot with no production and no shipping
// logs
func (r *LotRepository) FindOrphanedLots() ([]*entities.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orphans []*entities.Lot
	for _, lot := range r.s.lots {
		if len(r.s.production[lot.ID]) == 0 && len(r.s.shipping[lot.ID]) == 0 {
			l := *lot
			orphans = append(orphans, &l)
		}
	}
	return orphans, nil
}

// InsertLot creates a lot, computing the normalized identifier as part of
// the same operation. Duplicate identifiers (exact or normalized) are
// rejected so equivalent spellings collapse onto one lot.
func (r *LotRepository) InsertLot(lotIdentifier, partNumber string) (*entities.Lot, error) {
	lot, err := entities.NewLot(lotIdentifier, partNumber, r.s.clock())
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byIdentifier[lot.LotIdentifier]; exists {
		return nil, errors.Newf("lot %q already exists", lotIdentifier)
	}
	if _, exists := r.s.byNormalized[lot.NormalizedID]; exists {
		return nil, errors.Newf("lot equivalent to %q already exists", lotIdentifier)
	}

	r.s.nextLotID++
	lot.ID = r.s.nextLotID
	r.s.byIdentifier[lot.LotIdentifier] = len(r.s.lots)
	r.s.byNormalized[lot.NormalizedID] = len(r.s.lots)
	r.s.lots = append(r.s.lots, lot)

	result := *lot
	return &result, nil
}
