package sqlite

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// LotRepository is the lot view over a SQLite Store
type LotRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.LotRepository = (*LotRepository)(nil)

const lotColumns = `id, lot_identifier, normalized_lot_id, part_number, created_date`

func scanLot(row interface{ Scan(...any) error }) (*entities.Lot, error) {
	var lot entities.Lot
	var created string
	if err := row.Scan(&lot.ID, &lot.LotIdentifier, &lot.NormalizedID, &lot.PartNumber, &created); err != nil {
		return nil, err
	}
	createdDate, err := parseDate(created)
	if err != nil {
		return nil, err
	}
	lot.CreatedDate = createdDate
	return &lot, nil
}

// FindByIdentifier returns the lot with the exact original identifier, or
// (nil, nil) if absent
func (r *LotRepository) FindByIdentifier(lotIdentifier string) (*entities.Lot, error) {
	row := r.s.db.QueryRow(
		`SELECT `+lotColumns+` FROM lots WHERE lot_identifier = ?`, lotIdentifier)
	lot, err := scanLot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lot lookup by identifier")
	}
	return lot, nil
}

// FindByNormalizedID returns the lot with the given canonical identifier,
// or (nil, nil) if absent. An empty key matches nothing.
func (r *LotRepository) FindByNormalizedID(normalizedID string) (*entities.Lot, error) {
	if normalizedID == "" {
		return nil, nil
	}

	row := r.s.db.QueryRow(
		`SELECT `+lotColumns+` FROM lots WHERE normalized_lot_id = ?`, normalizedID)
	lot, err := scanLot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lot lookup by normalized id")
	}
	return lot, nil
}

// FindAll returns every lot
func (r *LotRepository) FindAll() ([]*entities.Lot, error) {
	rows, err := r.s.db.Query(`SELECT ` + lotColumns + ` FROM lots ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing lots")
	}
	defer rows.Close()

	var lots []*entities.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning lot")
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// FindOrphanedLots returns every lot with no production and no shipping
// logs
func (r *LotRepository) FindOrphanedLots() ([]*entities.Lot, error) {
	rows, err := r.s.db.Query(`
		SELECT ` + lotColumns + ` FROM lots l
		WHERE NOT EXISTS (SELECT 1 FROM production_logs p WHERE p.lot_id = l.id)
		  AND NOT EXISTS (SELECT 1 FROM shipping_logs s WHERE s.lot_id = l.id)
		ORDER BY l.id`)
	if err != nil {
		return nil, errors.Wrap(err, "orphaned lot scan")
	}
	defer rows.Close()

	var orphans []*entities.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning orphaned lot")
		}
		orphans = append(orphans, lot)
	}
	return orphans, rows.Err()
}

// InsertLot creates a lot. The normalized identifier is computed here and
// written in the same INSERT, so the row either exists with both
// identifiers or not at all.
func (r *LotRepository) InsertLot(lotIdentifier, partNumber string) (*entities.Lot, error) {
	lot, err := entities.NewLot(lotIdentifier, partNumber, time.Now())
	if err != nil {
		return nil, err
	}

	result, err := r.s.db.Exec(
		`INSERT INTO lots (lot_identifier, normalized_lot_id, part_number, created_date)
		 VALUES (?, ?, ?, ?)`,
		lot.LotIdentifier, lot.NormalizedID, lot.PartNumber, formatDate(lot.CreatedDate))
	if err != nil {
		return nil, errors.Wrapf(err, "inserting lot %q", lotIdentifier)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "reading inserted lot id")
	}
	lot.ID = id

	if r.s.logger != nil {
		r.s.logger.Debugw("Lot inserted",
			"lot", lot.LotIdentifier,
			"normalized", lot.NormalizedID,
			"id", lot.ID,
		)
	}
	return lot, nil
}
