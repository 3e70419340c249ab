package repositories

import "github.com/vsinha/lottrack/pkg/domain/entities"

// LotRepository provides access to lot anchor records.
//
// Single-row lookups treat "not found" as a soft result: they return
// (nil, nil) rather than an error. Callers branch on presence. Errors are
// reserved for store failures, which propagate unmodified.
type LotRepository interface {
	// FindByIdentifier looks up a lot by its exact original identifier.
	FindByIdentifier(lotIdentifier string) (*entities.Lot, error)

	// FindByNormalizedID looks up a lot by its canonical identifier.
	// Callers normalize the search term first; an empty normalized key
	// never matches anything.
	FindByNormalizedID(normalizedID string) (*entities.Lot, error)

	// FindAll returns every lot in the store.
	FindAll() ([]*entities.Lot, error)

	// FindOrphanedLots returns every lot with no production logs AND no
	// shipping logs. Orphans are report data, never silently dropped.
	FindOrphanedLots() ([]*entities.Lot, error)

	// InsertLot creates a lot, computing and storing the normalized
	// identifier in the same atomic operation so a lot can never exist
	// with a stale or missing canonical key.
	InsertLot(lotIdentifier, partNumber string) (*entities.Lot, error)
}
