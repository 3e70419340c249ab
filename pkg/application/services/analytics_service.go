package services

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/application/dto"
	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// AnalyticsService computes the period-comparison report sections: line
// rankings, defect trends, and shipping risks. All date windows are
// inclusive on both ends.
type AnalyticsService struct {
	production repositories.ProductionLogRepository
	shipping   repositories.ShippingLogRepository
}

// NewAnalyticsService creates an analytics service over the given
// repositories
func NewAnalyticsService(
	production repositories.ProductionLogRepository,
	shipping repositories.ShippingLogRepository,
) *AnalyticsService {
	return &AnalyticsService{
		production: production,
		shipping:   shipping,
	}
}

// RankLinesByDefects counts issue-flagged production logs per line in
// [start, end] and ranks lines by count descending. Ties are broken by
// line name ascending so the order never depends on store iteration
// order. Rank is a dense 1-based ordinal: the first element is rank 1,
// each subsequent element one higher, with no rank sharing on ties.
func (s *AnalyticsService) RankLinesByDefects(
	ctx context.Context,
	start, end time.Time,
) ([]dto.LineRanking, error) {
	counts, err := s.production.CountDefectsByLine(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "defect counts by line")
	}

	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].DefectCount != counts[j].DefectCount {
			return counts[i].DefectCount > counts[j].DefectCount
		}
		return counts[i].LineName < counts[j].LineName
	})

	rankings := make([]dto.LineRanking, 0, len(counts))
	for i, c := range counts {
		rankings = append(rankings, dto.LineRanking{
			LineName:    c.LineName,
			DefectCount: c.DefectCount,
			Rank:        i + 1,
		})
	}
	return rankings, nil
}

// ComputeDefectTrends compares defect-type frequencies in the current
// window against the immediately preceding window of identical
// (inclusive-day) length. Only defect types present in the current window
// are reported; a type seen before but absent now has "ended" and is not
// a trend row. Results are ordered by severity (Critical first) then
// defect name for determinism.
func (s *AnalyticsService) ComputeDefectTrends(
	ctx context.Context,
	currentStart, currentEnd time.Time,
) ([]dto.DefectTrend, error) {
	current, err := s.production.CountDefectsByType(currentStart, currentEnd)
	if err != nil {
		return nil, errors.Wrap(err, "current period defect counts")
	}

	// Previous window: same inclusive length in calendar days, ending the
	// day before the current window starts. Counted on dates, not elapsed
	// hours, so a DST transition inside the window cannot shorten it.
	days := calendarDaysBetween(currentStart, currentEnd)
	previousStart := currentStart.AddDate(0, 0, -(days + 1))
	previousEnd := currentStart.AddDate(0, 0, -1)

	previous, err := s.production.CountDefectsByType(previousStart, previousEnd)
	if err != nil {
		return nil, errors.Wrap(err, "previous period defect counts")
	}

	previousByName := make(map[string]int64, len(previous))
	for _, p := range previous {
		previousByName[p.DefectName] = p.DefectCount
	}

	trends := make([]dto.DefectTrend, 0, len(current))
	for _, c := range current {
		p := previousByName[c.DefectName] // 0 when absent last period

		var direction dto.TrendDirection
		switch {
		case p == 0 && c.DefectCount > 0:
			direction = dto.TrendNew
		case c.DefectCount > p:
			direction = dto.TrendUp
		case c.DefectCount < p:
			direction = dto.TrendDown
		default:
			direction = dto.TrendFlat
		}

		trends = append(trends, dto.DefectTrend{
			DefectName:    c.DefectName,
			Severity:      c.Severity,
			CurrentCount:  c.DefectCount,
			PreviousCount: p,
			Direction:     direction,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		si, sj := severityOrder(trends[i].Severity), severityOrder(trends[j].Severity)
		if si != sj {
			return si < sj
		}
		return trends[i].DefectName < trends[j].DefectName
	})

	return trends, nil
}

// ShippingRisks returns every issue-flagged shipped lot paired with each
// of its flagged defects, most recent shipment first. Deliberately not
// restricted to Critical severity: a shipped lot with any flagged issue
// is worth a look.
func (s *AnalyticsService) ShippingRisks(ctx context.Context) ([]dto.ShippingRisk, error) {
	rows, err := s.shipping.FindShippedLotsWithDefects()
	if err != nil {
		return nil, errors.Wrap(err, "shipped lots with defects")
	}

	risks := make([]dto.ShippingRisk, 0, len(rows))
	for _, row := range rows {
		risks = append(risks, dto.ShippingRisk{
			LotIdentifier: row.LotIdentifier,
			CustomerName:  row.CustomerName,
			ShipDate:      row.ShipDate,
			DefectName:    row.DefectName,
			Severity:      row.Severity,
		})
	}
	return risks, nil
}

// calendarDaysBetween counts the calendar days from start's date to end's
// date. Both are normalized to UTC midnight first, so the subtraction is
// exact regardless of the inputs' zone or any DST shift between them.
func calendarDaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

func severityOrder(s entities.Severity) int {
	switch s {
	case entities.SeverityCritical:
		return 0
	case entities.SeverityMajor:
		return 1
	case entities.SeverityMinor:
		return 2
	default:
		return 3
	}
}
