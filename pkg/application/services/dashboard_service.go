package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/lottrack/pkg/application/dto"
	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/infrastructure/events"
)

// DashboardService picks the reporting window from a grouping selector and
// assembles one report from the analytics and reconciliation sections. It
// performs no filtering of its own.
//
// The five sections are independent reads over the store, so they are
// fetched concurrently; the first failure cancels the rest and fails the
// whole report. No partial dashboard is ever returned.
type DashboardService struct {
	analytics      *AnalyticsService
	reconciliation *ReconciliationService

	// events receives a ReportBuilt record per assembled report; nil
	// disables the audit trail.
	events events.EventStore

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(
	analytics *AnalyticsService,
	reconciliation *ReconciliationService,
) *DashboardService {
	return &DashboardService{
		analytics:      analytics,
		reconciliation: reconciliation,
		now:            time.Now,
	}
}

// WithEvents attaches an audit event store
func (s *DashboardService) WithEvents(es events.EventStore) *DashboardService {
	s.events = es
	return s
}

// WithClock overrides the service's notion of "today". Used by tests.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// BuildDashboard assembles the full report for the given time grouping.
// The grouping is case-insensitive and defaults to WEEKLY when blank.
func (s *DashboardService) BuildDashboard(ctx context.Context, grouping string) (*dto.Dashboard, error) {
	g := entities.ParseTimeGrouping(grouping)
	periodStart, periodEnd := s.reportingWindow(g)

	report := &dto.Dashboard{
		ReportID:     uuid.New(),
		GeneratedAt:  s.now(),
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TimeGrouping: g.String(),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		rankings, err := s.analytics.RankLinesByDefects(ctx, periodStart, periodEnd)
		report.LineRankings = rankings
		return err
	})
	eg.Go(func() error {
		risks, err := s.analytics.ShippingRisks(ctx)
		report.ShippingRisks = risks
		return err
	})
	eg.Go(func() error {
		trends, err := s.analytics.ComputeDefectTrends(ctx, periodStart, periodEnd)
		report.DefectTrends = trends
		return err
	})
	eg.Go(func() error {
		orphans, err := s.reconciliation.FindOrphanedLots(ctx)
		report.OrphanedLots = orphans
		return err
	})
	eg.Go(func() error {
		conflicts, err := s.reconciliation.FindLineConflicts(ctx)
		report.LineConflicts = conflicts
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "building dashboard")
	}

	if s.events != nil {
		reportID := report.ReportID.String()
		_ = s.events.AppendEvent(reportID, events.NewReportBuiltEvent(
			reportID, report.TimeGrouping, report.PeriodStart, report.PeriodEnd))
	}
	return report, nil
}

// reportingWindow computes the inclusive [start, end] date range anchored
// at today: DAILY is today only, WEEKLY runs from the most recent Monday
// on or before today (ISO week), MONTHLY from the first of the month.
func (s *DashboardService) reportingWindow(g entities.TimeGrouping) (time.Time, time.Time) {
	t := s.now()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	switch g {
	case entities.GroupingDaily:
		return today, today
	case entities.GroupingMonthly:
		firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return firstOfMonth, today
	default:
		// Days since Monday: Monday=0 ... Sunday=6.
		sinceMonday := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -sinceMonday), today
	}
}
