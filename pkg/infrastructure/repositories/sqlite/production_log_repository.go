package sqlite

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// ProductionLogRepository is the production-log view over a SQLite Store
type ProductionLogRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.ProductionLogRepository = (*ProductionLogRepository)(nil)

const productionSelect = `
	SELECT p.id, p.lot_id,
	       pl.id, pl.name, pl.department,
	       dt.id, dt.code, dt.name, dt.severity,
	       p.production_date, p.shift,
	       p.units_planned, p.units_actual, p.downtime_minutes,
	       p.issue_flag, p.supervisor_notes, p.source_file, p.source_row
	FROM production_logs p
	JOIN production_lines pl ON pl.id = p.production_line_id
	LEFT JOIN defect_types dt ON dt.id = p.defect_type_id`

func scanProductionLog(rows *sql.Rows) (*entities.ProductionLog, error) {
	var log entities.ProductionLog
	var date string
	var defectID sql.NullInt64
	var defectCode, defectName, defectSeverity sql.NullString

	err := rows.Scan(
		&log.ID, &log.LotID,
		&log.Line.ID, &log.Line.Name, &log.Line.Department,
		&defectID, &defectCode, &defectName, &defectSeverity,
		&date, &log.Shift,
		&log.UnitsPlanned, &log.UnitsActual, &log.DowntimeMinutes,
		&log.IssueFlag, &log.SupervisorNotes, &log.SourceFile, &log.SourceRow,
	)
	if err != nil {
		return nil, err
	}

	if defectID.Valid {
		log.Defect = &entities.DefectType{
			ID:       defectID.Int64,
			Code:     defectCode.String,
			Name:     defectName.String,
			Severity: entities.Severity(defectSeverity.String),
		}
	}

	parsed, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	log.Date = parsed
	return &log, nil
}

func (r *ProductionLogRepository) queryLogs(query string, args ...any) ([]*entities.ProductionLog, error) {
	rows, err := r.s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*entities.ProductionLog
	for rows.Next() {
		log, err := scanProductionLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Insert writes a production log row, creating its production line and
// defect type reference rows on first sight
func (r *ProductionLogRepository) Insert(log *entities.ProductionLog) (int64, error) {
	tx, err := r.s.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "beginning insert")
	}
	defer tx.Rollback()

	lineID, err := ensureLine(tx, log.Line)
	if err != nil {
		return 0, err
	}

	var defectID any
	if log.Defect != nil {
		id, err := ensureDefectType(tx, *log.Defect)
		if err != nil {
			return 0, err
		}
		defectID = id
	}

	result, err := tx.Exec(`
		INSERT INTO production_logs
			(lot_id, production_line_id, defect_type_id, production_date, shift,
			 units_planned, units_actual, downtime_minutes, issue_flag,
			 supervisor_notes, source_file, source_row)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.LotID, lineID, defectID, formatDate(log.Date), log.Shift,
		log.UnitsPlanned, log.UnitsActual, log.DowntimeMinutes, log.IssueFlag,
		log.SupervisorNotes, log.SourceFile, log.SourceRow)
	if err != nil {
		return 0, errors.Wrap(err, "inserting production log")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "reading inserted production log id")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "committing production log insert")
	}
	return id, nil
}

// FindByLot returns all production logs for a lot
func (r *ProductionLogRepository) FindByLot(lotID int64) ([]*entities.ProductionLog, error) {
	logs, err := r.queryLogs(productionSelect+` WHERE p.lot_id = ? ORDER BY p.id`, lotID)
	if err != nil {
		return nil, errors.Wrap(err, "production logs by lot")
	}
	return logs, nil
}

// FindFlaggedByLot returns the lot's issue-flagged production logs
func (r *ProductionLogRepository) FindFlaggedByLot(lotID int64) ([]*entities.ProductionLog, error) {
	logs, err := r.queryLogs(
		productionSelect+` WHERE p.lot_id = ? AND p.issue_flag = 1 ORDER BY p.id`, lotID)
	if err != nil {
		return nil, errors.Wrap(err, "flagged production logs by lot")
	}
	return logs, nil
}

// FindByDateRange returns production logs with a date in [start, end]
func (r *ProductionLogRepository) FindByDateRange(start, end time.Time) ([]*entities.ProductionLog, error) {
	logs, err := r.queryLogs(
		productionSelect+` WHERE p.production_date BETWEEN ? AND ? ORDER BY p.production_date`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, errors.Wrap(err, "production logs by date range")
	}
	return logs, nil
}

// CountDefectsByLine counts issue-flagged logs per line in [start, end]
func (r *ProductionLogRepository) CountDefectsByLine(start, end time.Time) ([]repositories.LineDefectCount, error) {
	rows, err := r.s.db.Query(`
		SELECT pl.name, COUNT(*)
		FROM production_logs p
		JOIN production_lines pl ON pl.id = p.production_line_id
		WHERE p.issue_flag = 1
		  AND p.production_date BETWEEN ? AND ?
		GROUP BY pl.name
		ORDER BY COUNT(*) DESC`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, errors.Wrap(err, "counting defects by line")
	}
	defer rows.Close()

	var counts []repositories.LineDefectCount
	for rows.Next() {
		var c repositories.LineDefectCount
		if err := rows.Scan(&c.LineName, &c.DefectCount); err != nil {
			return nil, errors.Wrap(err, "scanning line defect count")
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountDefectsByType counts issue-flagged logs per defect name and
// severity in [start, end]
func (r *ProductionLogRepository) CountDefectsByType(start, end time.Time) ([]repositories.DefectTypeCount, error) {
	rows, err := r.s.db.Query(`
		SELECT dt.name, dt.severity, COUNT(*)
		FROM production_logs p
		JOIN defect_types dt ON dt.id = p.defect_type_id
		WHERE p.issue_flag = 1
		  AND p.production_date BETWEEN ? AND ?
		GROUP BY dt.name, dt.severity
		ORDER BY COUNT(*) DESC`,
		formatDate(start), formatDate(end))
	if err != nil {
		return nil, errors.Wrap(err, "counting defects by type")
	}
	defer rows.Close()

	var counts []repositories.DefectTypeCount
	for rows.Next() {
		var c repositories.DefectTypeCount
		var severity string
		if err := rows.Scan(&c.DefectName, &severity, &c.DefectCount); err != nil {
			return nil, errors.Wrap(err, "scanning defect type count")
		}
		c.Severity = entities.Severity(severity)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// FindLotsWithMultipleLines returns lots whose production logs span two or
// more distinct line names. Names are grouped in Go rather than with
// GROUP_CONCAT: SQLite forbids a custom separator with DISTINCT, and the
// default comma would split line names that themselves contain commas.
func (r *ProductionLogRepository) FindLotsWithMultipleLines() ([]repositories.MultiLineLot, error) {
	rows, err := r.s.db.Query(`
		SELECT l.lot_identifier, pl.name
		FROM production_logs p
		JOIN lots l ON l.id = p.lot_id
		JOIN production_lines pl ON pl.id = p.production_line_id
		ORDER BY l.id, p.id`)
	if err != nil {
		return nil, errors.Wrap(err, "scanning for multi-line lots")
	}
	defer rows.Close()

	var order []string
	seen := make(map[string]map[string]bool)
	names := make(map[string][]string)
	for rows.Next() {
		var lot, name string
		if err := rows.Scan(&lot, &name); err != nil {
			return nil, errors.Wrap(err, "scanning multi-line lot")
		}
		if seen[lot] == nil {
			seen[lot] = make(map[string]bool)
			order = append(order, lot)
		}
		if !seen[lot][name] {
			seen[lot][name] = true
			names[lot] = append(names[lot], name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var result []repositories.MultiLineLot
	for _, lot := range order {
		if len(names[lot]) > 1 {
			result = append(result, repositories.MultiLineLot{
				LotIdentifier: lot,
				LineNames:     names[lot],
			})
		}
	}
	return result, nil
}

func ensureLine(tx *sql.Tx, line entities.ProductionLine) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM production_lines WHERE name = ?`, line.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "looking up line %q", line.Name)
	}

	result, err := tx.Exec(
		`INSERT INTO production_lines (name, department) VALUES (?, ?)`,
		line.Name, line.Department)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting line %q", line.Name)
	}
	return result.LastInsertId()
}

func ensureDefectType(tx *sql.Tx, defect entities.DefectType) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM defect_types WHERE code = ?`, defect.Code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(err, "looking up defect type %q", defect.Code)
	}

	result, err := tx.Exec(
		`INSERT INTO defect_types (code, name, severity) VALUES (?, ?, ?)`,
		defect.Code, defect.Name, string(defect.Severity))
	if err != nil {
		return 0, errors.Wrapf(err, "inserting defect type %q", defect.Code)
	}
	return result.LastInsertId()
}
