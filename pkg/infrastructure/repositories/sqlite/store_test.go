package sqlite

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, nil), mock
}

func lotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "lot_identifier", "normalized_lot_id", "part_number", "created_date",
	})
}

func TestLotRepository_FindByIdentifier(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM lots WHERE lot_identifier = \?`).
		WithArgs("LOT-001").
		WillReturnRows(lotRows().AddRow(1, "LOT-001", "LOT001", "PN-100", "2026-02-01"))

	lot, err := store.Lots().FindByIdentifier("LOT-001")
	require.NoError(t, err)
	require.NotNil(t, lot)
	assert.Equal(t, int64(1), lot.ID)
	assert.Equal(t, "LOT001", lot.NormalizedID)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), lot.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLotRepository_FindByIdentifier_Missing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM lots WHERE lot_identifier = \?`).
		WithArgs("NOPE").
		WillReturnRows(lotRows())

	lot, err := store.Lots().FindByIdentifier("NOPE")
	require.NoError(t, err)
	assert.Nil(t, lot, "missing lot is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLotRepository_FindByNormalizedID_EmptyKeyShortCircuits(t *testing.T) {
	store, mock := newMockStore(t)

	// No query is expected; an empty key never reaches the database.
	lot, err := store.Lots().FindByNormalizedID("")
	require.NoError(t, err)
	assert.Nil(t, lot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLotRepository_InsertLot(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO lots`).
		WithArgs("LOT-9 01", "LOT901", "PN-200", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	lot, err := store.Lots().InsertLot("LOT-9 01", "PN-200")
	require.NoError(t, err)
	assert.Equal(t, int64(7), lot.ID)
	assert.Equal(t, "LOT-9 01", lot.LotIdentifier)
	assert.Equal(t, "LOT901", lot.NormalizedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLotRepository_FindOrphanedLots(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM lots l\s+WHERE NOT EXISTS`).
		WillReturnRows(lotRows().AddRow(3, "LOT-003", "LOT003", "PN-300", "2026-02-03"))

	orphans, err := store.Lots().FindOrphanedLots()
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "LOT-003", orphans[0].LotIdentifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_FindByLot(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "lot_id",
		"line_id", "line_name", "department",
		"defect_id", "defect_code", "defect_name", "defect_severity",
		"production_date", "shift",
		"units_planned", "units_actual", "downtime_minutes",
		"issue_flag", "supervisor_notes", "source_file", "source_row",
	}).
		AddRow(1, 1, 10, "Line 1", "Rolling", 5, "SC", "Surface Crack", "Critical",
			"2026-02-09", "A", 100, 92, 30, true, "visible cracking", "production_feb.csv", 2).
		AddRow(2, 1, 10, "Line 1", "Rolling", nil, nil, nil, nil,
			"2026-02-10", "B", 100, 100, 0, false, "", "production_feb.csv", 3)

	mock.ExpectQuery(`FROM production_logs p\s+JOIN production_lines`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	logs, err := store.ProductionLogs().FindByLot(1)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	require.NotNil(t, logs[0].Defect)
	assert.Equal(t, "Surface Crack", logs[0].Defect.Name)
	assert.Equal(t, entities.SeverityCritical, logs[0].Defect.Severity)
	assert.True(t, logs[0].IssueFlag)

	assert.Nil(t, logs[1].Defect, "rows without a defect join scan to nil")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_Insert_ReusesExistingLine(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM production_lines WHERE name = \?`).
		WithArgs("Line 1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectExec(`INSERT INTO production_logs`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	log := &entities.ProductionLog{
		LotID: 1,
		Line:  entities.ProductionLine{Name: "Line 1", Department: "Rolling"},
		Date:  time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
	}
	id, err := store.ProductionLogs().Insert(log)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_Insert_CreatesDefectType(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM production_lines WHERE name = \?`).
		WithArgs("Line 2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO production_lines`).
		WithArgs("Line 2", "Finishing").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT id FROM defect_types WHERE code = \?`).
		WithArgs("EB").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO defect_types`).
		WithArgs("EB", "Edge Burr", "Minor").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectExec(`INSERT INTO production_logs`).
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectCommit()

	log := &entities.ProductionLog{
		LotID:  2,
		Line:   entities.ProductionLine{Name: "Line 2", Department: "Finishing"},
		Defect: &entities.DefectType{Code: "EB", Name: "Edge Burr", Severity: entities.SeverityMinor},
		Date:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	id, err := store.ProductionLogs().Insert(log)
	require.NoError(t, err)
	assert.Equal(t, int64(43), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_CountDefectsByLine(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT pl\.name, COUNT\(\*\)`).
		WithArgs("2026-02-09", "2026-02-15").
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}).
			AddRow("Line 1", 4).
			AddRow("Line 2", 1))

	counts, err := store.ProductionLogs().CountDefectsByLine(
		time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Line 1", counts[0].LineName)
	assert.Equal(t, int64(4), counts[0].DefectCount)
	assert.Equal(t, int64(1), counts[1].DefectCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_FindLotsWithMultipleLines(t *testing.T) {
	store, mock := newMockStore(t)

	// LOT-002 ran on two lines; LOT-001 only ever saw one and is not a
	// conflict, however many logs it has.
	mock.ExpectQuery(`SELECT l\.lot_identifier, pl\.name\s+FROM production_logs p`).
		WillReturnRows(sqlmock.NewRows([]string{"lot_identifier", "name"}).
			AddRow("LOT-001", "Line 1").
			AddRow("LOT-001", "Line 1").
			AddRow("LOT-002", "Line 1").
			AddRow("LOT-002", "Line 2"))

	conflicts, err := store.ProductionLogs().FindLotsWithMultipleLines()
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "LOT-002", conflicts[0].LotIdentifier)
	assert.Equal(t, []string{"Line 1", "Line 2"}, conflicts[0].LineNames)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductionLogRepository_FindLotsWithMultipleLines_CommaInLineName(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT l\.lot_identifier, pl\.name\s+FROM production_logs p`).
		WillReturnRows(sqlmock.NewRows([]string{"lot_identifier", "name"}).
			AddRow("LOT-007", "Rolling, East Bay").
			AddRow("LOT-007", "Line 2"))

	conflicts, err := store.ProductionLogs().FindLotsWithMultipleLines()
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, []string{"Rolling, East Bay", "Line 2"}, conflicts[0].LineNames,
		"line names containing commas stay intact")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingLogRepository_ExistsShipped(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(1), "Shipped").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	shipped, err := store.ShippingLogs().ExistsShipped(1)
	require.NoError(t, err)
	assert.True(t, shipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingLogRepository_Insert(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM customers WHERE name = \?`).
		WithArgs("Acme Steel").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(`INSERT INTO shipping_logs`).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	log := &entities.ShippingLog{
		LotID:    1,
		Customer: entities.Customer{Name: "Acme Steel"},
		ShipDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:   entities.StatusShipped,
	}
	id, err := store.ShippingLogs().Insert(log)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingLogRepository_FindShippedLotsWithDefects(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM shipping_logs s\s+JOIN lots l`).
		WithArgs("Shipped").
		WillReturnRows(sqlmock.NewRows([]string{
			"lot_identifier", "customer", "ship_date", "defect", "severity",
		}).
			AddRow("LOT-005", "Acme Steel", "2026-02-12", "Weld Porosity", "Major").
			AddRow("LOT-001", "Acme Steel", "2026-02-10", "Surface Crack", "Critical"))

	risks, err := store.ShippingLogs().FindShippedLotsWithDefects()
	require.NoError(t, err)
	require.Len(t, risks, 2)
	assert.Equal(t, "LOT-005", risks[0].LotIdentifier, "newest shipment first")
	assert.Equal(t, entities.SeverityCritical, risks[1].Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
