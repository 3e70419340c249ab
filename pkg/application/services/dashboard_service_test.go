package services

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
	"github.com/vsinha/lottrack/pkg/infrastructure/events"
	fixtures "github.com/vsinha/lottrack/pkg/infrastructure/testing"
)

func newDashboardFixture(t *testing.T, now time.Time) *DashboardService {
	t.Helper()
	store := fixtures.BuildReconciliationTestData()
	analytics := NewAnalyticsService(store.ProductionLogs(), store.ShippingLogs())
	reconciliation := NewReconciliationService(store.Lots(), store.ProductionLogs(), store.ShippingLogs())
	return NewDashboardService(analytics, reconciliation).
		WithClock(func() time.Time { return now })
}

func TestDashboardService_DefaultsToWeekly(t *testing.T) {
	// Wednesday 2026-02-11; the Monday on/before is 2026-02-09.
	svc := newDashboardFixture(t, fixtures.Day(2026, 2, 11))

	report, err := svc.BuildDashboard(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "WEEKLY", report.TimeGrouping)
	assert.Equal(t, fixtures.Day(2026, 2, 9), report.PeriodStart)
	assert.Equal(t, fixtures.Day(2026, 2, 11), report.PeriodEnd)
}

func TestDashboardService_GroupingWindows(t *testing.T) {
	now := fixtures.Day(2026, 2, 11) // Wednesday

	tests := []struct {
		grouping  string
		wantLabel string
		wantStart time.Time
	}{
		{"DAILY", "DAILY", fixtures.Day(2026, 2, 11)},
		{"daily", "DAILY", fixtures.Day(2026, 2, 11)},
		{"weekly", "WEEKLY", fixtures.Day(2026, 2, 9)},
		{"MONTHLY", "MONTHLY", fixtures.Day(2026, 2, 1)},
		{"nonsense", "WEEKLY", fixtures.Day(2026, 2, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.grouping, func(t *testing.T) {
			svc := newDashboardFixture(t, now)
			report, err := svc.BuildDashboard(context.Background(), tt.grouping)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, report.TimeGrouping)
			assert.Equal(t, tt.wantStart, report.PeriodStart)
			assert.Equal(t, now, report.PeriodEnd)
		})
	}
}

func TestDashboardService_WeeklyOnMonday(t *testing.T) {
	// 2026-02-09 is itself a Monday: the window is that single day so far.
	svc := newDashboardFixture(t, fixtures.Day(2026, 2, 9))

	report, err := svc.BuildDashboard(context.Background(), "WEEKLY")
	require.NoError(t, err)
	assert.Equal(t, fixtures.Day(2026, 2, 9), report.PeriodStart)
	assert.Equal(t, fixtures.Day(2026, 2, 9), report.PeriodEnd)
}

func TestDashboardService_AssemblesAllSections(t *testing.T) {
	// Window covering the fixture data week.
	svc := newDashboardFixture(t, fixtures.Day(2026, 2, 11))

	report, err := svc.BuildDashboard(context.Background(), "WEEKLY")
	require.NoError(t, err)

	require.Len(t, report.LineRankings, 1)
	assert.Equal(t, "Line 1", report.LineRankings[0].LineName)
	assert.Equal(t, 1, report.LineRankings[0].Rank)

	require.Len(t, report.ShippingRisks, 1)
	assert.Equal(t, "LOT-001", report.ShippingRisks[0].LotIdentifier)

	require.Len(t, report.DefectTrends, 1)
	assert.Equal(t, "Surface Crack", report.DefectTrends[0].DefectName)

	// Orphans and conflicts are always surfaced, regardless of window.
	require.Len(t, report.OrphanedLots, 1)
	assert.Equal(t, "LOT-003", report.OrphanedLots[0].LotIdentifier)
	require.Len(t, report.LineConflicts, 1)
	assert.Equal(t, "LOT-002", report.LineConflicts[0].LotIdentifier)

	assert.NotZero(t, report.ReportID)
	assert.NotZero(t, report.GeneratedAt)
}

func TestDashboardService_RecordsReportBuiltEvent(t *testing.T) {
	eventStore := events.NewInMemoryEventStore(nil)
	svc := newDashboardFixture(t, fixtures.Day(2026, 2, 11)).WithEvents(eventStore)

	report, err := svc.BuildDashboard(context.Background(), "WEEKLY")
	require.NoError(t, err)

	recorded, err := eventStore.ReadEvents(report.ReportID.String(), 0)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, events.ReportBuiltEvent, recorded[0].Type())
}

// failingProductionRepo simulates a store outage
type failingProductionRepo struct{}

var errStoreDown = errors.New("store unavailable")

func (failingProductionRepo) FindByLot(int64) ([]*entities.ProductionLog, error) {
	return nil, errStoreDown
}
func (failingProductionRepo) FindFlaggedByLot(int64) ([]*entities.ProductionLog, error) {
	return nil, errStoreDown
}
func (failingProductionRepo) FindByDateRange(time.Time, time.Time) ([]*entities.ProductionLog, error) {
	return nil, errStoreDown
}
func (failingProductionRepo) CountDefectsByLine(time.Time, time.Time) ([]repositories.LineDefectCount, error) {
	return nil, errStoreDown
}
func (failingProductionRepo) CountDefectsByType(time.Time, time.Time) ([]repositories.DefectTypeCount, error) {
	return nil, errStoreDown
}
func (failingProductionRepo) FindLotsWithMultipleLines() ([]repositories.MultiLineLot, error) {
	return nil, errStoreDown
}

func TestDashboardService_StoreFailureFailsWholeReport(t *testing.T) {
	store := fixtures.BuildReconciliationTestData()
	analytics := NewAnalyticsService(failingProductionRepo{}, store.ShippingLogs())
	reconciliation := NewReconciliationService(store.Lots(), failingProductionRepo{}, store.ShippingLogs())
	svc := NewDashboardService(analytics, reconciliation).
		WithClock(func() time.Time { return fixtures.Day(2026, 2, 11) })

	report, err := svc.BuildDashboard(context.Background(), "WEEKLY")
	require.Error(t, err)
	assert.Nil(t, report, "no partial dashboard on store failure")
	assert.ErrorIs(t, err, errStoreDown)
}
