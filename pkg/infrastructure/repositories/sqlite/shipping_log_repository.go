package sqlite

import (
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// ShippingLogRepository is the shipping-log view over a SQLite Store
type ShippingLogRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.ShippingLogRepository = (*ShippingLogRepository)(nil)

// Insert writes a shipping log row, creating its customer reference row
// on first sight
func (r *ShippingLogRepository) Insert(log *entities.ShippingLog) (int64, error) {
	tx, err := r.s.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "beginning insert")
	}
	defer tx.Rollback()

	customerID, err := ensureCustomer(tx, log.Customer)
	if err != nil {
		return 0, err
	}

	result, err := tx.Exec(`
		INSERT INTO shipping_logs
			(lot_id, customer_id, ship_date, sales_order_number,
			 destination_state, carrier, bol_number, tracking_number,
			 qty_shipped, ship_status, hold_reason, shipping_notes,
			 source_file, source_row)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.LotID, customerID, formatDate(log.ShipDate), log.SalesOrderNumber,
		log.DestinationState, log.Carrier, log.BOLNumber, log.TrackingNumber,
		log.QtyShipped, string(log.Status), log.HoldReason, log.Notes,
		log.SourceFile, log.SourceRow)
	if err != nil {
		return 0, errors.Wrap(err, "inserting shipping log")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "reading inserted shipping log id")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing shipping log insert")
	}
	return id, nil
}

// FindByLot returns all shipping logs for a lot
func (r *ShippingLogRepository) FindByLot(lotID int64) ([]*entities.ShippingLog, error) {
	rows, err := r.s.db.Query(`
		SELECT s.id, s.lot_id,
		       c.id, c.name, c.region,
		       s.ship_date, s.sales_order_number, s.destination_state,
		       s.carrier, s.bol_number, s.tracking_number,
		       s.qty_shipped, s.ship_status, s.hold_reason, s.shipping_notes,
		       s.source_file, s.source_row
		FROM shipping_logs s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.lot_id = ?
		ORDER BY s.id`, lotID)
	if err != nil {
		return nil, errors.Wrap(err, "shipping logs by lot")
	}
	defer rows.Close()

	var logs []*entities.ShippingLog
	for rows.Next() {
		var log entities.ShippingLog
		var shipDate, status string
		err := rows.Scan(
			&log.ID, &log.LotID,
			&log.Customer.ID, &log.Customer.Name, &log.Customer.Region,
			&shipDate, &log.SalesOrderNumber, &log.DestinationState,
			&log.Carrier, &log.BOLNumber, &log.TrackingNumber,
			&log.QtyShipped, &status, &log.HoldReason, &log.Notes,
			&log.SourceFile, &log.SourceRow,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scanning shipping log")
		}
		log.Status = entities.ShipStatus(status)
		parsed, err := parseDate(shipDate)
		if err != nil {
			return nil, err
		}
		log.ShipDate = parsed
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

// ExistsShipped reports whether the lot has at least one Shipped record
func (r *ShippingLogRepository) ExistsShipped(lotID int64) (bool, error) {
	var exists bool
	err := r.s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM shipping_logs
			WHERE lot_id = ? AND ship_status = ?
		)`, lotID, string(entities.StatusShipped)).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking shipped status")
	}
	return exists, nil
}

// FindShippedLotsWithDefects joins shipped lots against their flagged
// production logs, newest shipments first
func (r *ShippingLogRepository) FindShippedLotsWithDefects() ([]repositories.ShippedDefectRow, error) {
	rows, err := r.s.db.Query(`
		SELECT l.lot_identifier, c.name, s.ship_date, dt.name, dt.severity
		FROM shipping_logs s
		JOIN lots l ON l.id = s.lot_id
		JOIN customers c ON c.id = s.customer_id
		JOIN production_logs p ON p.lot_id = l.id
		JOIN defect_types dt ON dt.id = p.defect_type_id
		WHERE s.ship_status = ?
		  AND p.issue_flag = 1
		ORDER BY s.ship_date DESC`, string(entities.StatusShipped))
	if err != nil {
		return nil, errors.Wrap(err, "scanning shipped lots with defects")
	}
	defer rows.Close()

	var result []repositories.ShippedDefectRow
	for rows.Next() {
		var row repositories.ShippedDefectRow
		var shipDate, severity string
		if err := rows.Scan(&row.LotIdentifier, &row.CustomerName, &shipDate, &row.DefectName, &severity); err != nil {
			return nil, errors.Wrap(err, "scanning shipped defect row")
		}
		row.Severity = entities.Severity(severity)
		parsed, err := parseDate(shipDate)
		if err != nil {
			return nil, err
		}
		row.ShipDate = parsed
		result = append(result, row)
	}
	return result, rows.Err()
}

func ensureCustomer(tx *sql.Tx, customer entities.Customer) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM customers WHERE name = ?`, customer.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "looking up customer %q", customer.Name)
	}

	result, err := tx.Exec(
		`INSERT INTO customers (name, region) VALUES (?, ?)`,
		customer.Name, customer.Region)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting customer %q", customer.Name)
	}
	return result.LastInsertId()
}
