package memory

import (
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vsinha/lottrack/pkg/domain/entities"
	"github.com/vsinha/lottrack/pkg/domain/repositories"
)

// ProductionLogRepository is the production-log view over a shared
// in-memory Store
type ProductionLogRepository struct {
	s *Store
}

// Verify interface compliance
var _ repositories.ProductionLogRepository = (*ProductionLogRepository)(nil)

// Insert appends a production log row and returns its ID
func (r *ProductionLogRepository) Insert(log *entities.ProductionLog) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.lotExists(log.LotID) {
		return 0, errors.Newf("production log references unknown lot id %d", log.LotID)
	}

	r.s.nextProdID++
	stored := *log
	stored.ID = r.s.nextProdID
	r.s.production[log.LotID] = append(r.s.production[log.LotID], &stored)
	return stored.ID, nil
}

// FindByLot returns all production logs for a lot
func (r *ProductionLogRepository) FindByLot(lotID int64) ([]*entities.ProductionLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*entities.ProductionLog, 0, len(r.s.production[lotID]))
	for _, pl := range r.s.production[lotID] {
		l := *pl
		result = append(result, &l)
	}
	return result, nil
}

// FindFlaggedByLot returns the lot's issue-flagged production logs
func (r *ProductionLogRepository) FindFlaggedByLot(lotID int64) ([]*entities.ProductionLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var flagged []*entities.ProductionLog
	for _, pl := range r.s.production[lotID] {
		if pl.IssueFlag {
			l := *pl
			flagged = append(flagged, &l)
		}
	}
	return flagged, nil
}

// FindByDateRange returns production logs with a date in [start, end]
func (r *ProductionLogRepository) FindByDateRange(start, end time.Time) ([]*entities.ProductionLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*entities.ProductionLog
	for _, logs := range r.s.production {
		for _, pl := range logs {
			if inRange(pl.Date, start, end) {
				l := *pl
				result = append(result, &l)
			}
		}
	}
	return result, nil
}

// CountDefectsByLine counts issue-flagged logs per line in [start, end],
// highest count first. Tie order between equal counts is unspecified here;
// the analytics layer applies the deterministic secondary sort.
func (r *ProductionLogRepository) CountDefectsByLine(start, end time.Time) ([]repositories.LineDefectCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, logs := range r.s.production {
		for _, pl := range logs {
			if pl.IssueFlag && inRange(pl.Date, start, end) {
				counts[pl.Line.Name]++
			}
		}
	}

	result := make([]repositories.LineDefectCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, repositories.LineDefectCount{LineName: name, DefectCount: count})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DefectCount > result[j].DefectCount
	})
	return result, nil
}

// CountDefectsByType counts issue-flagged logs per defect name and
// severity in [start, end]. Flagged logs with no recorded defect type are
// not counted here; they still mark the lot as having an issue.
func (r *ProductionLogRepository) CountDefectsByType(start, end time.Time) ([]repositories.DefectTypeCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type key struct {
		name     string
		severity entities.Severity
	}
	counts := make(map[key]int64)
	for _, logs := range r.s.production {
		for _, pl := range logs {
			if pl.IssueFlag && pl.Defect != nil && inRange(pl.Date, start, end) {
				counts[key{pl.Defect.Name, pl.Defect.Severity}]++
			}
		}
	}

	result := make([]repositories.DefectTypeCount, 0, len(counts))
	for k, count := range counts {
		result = append(result, repositories.DefectTypeCount{
			DefectName:  k.name,
			Severity:    k.severity,
			DefectCount: count,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DefectCount > result[j].DefectCount
	})
	return result, nil
}

// FindLotsWithMultipleLines returns lots whose production logs span two or
// more distinct line names. Distinctness is on the set of names, so two
// logs on the same line are not a conflict.
func (r *ProductionLogRepository) FindLotsWithMultipleLines() ([]repositories.MultiLineLot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []repositories.MultiLineLot
	for _, lot := range r.s.lots {
		seen := make(map[string]bool)
		var names []string
		for _, pl := range r.s.production[lot.ID] {
			if !seen[pl.Line.Name] {
				seen[pl.Line.Name] = true
				names = append(names, pl.Line.Name)
			}
		}
		if len(names) >= 2 {
			result = append(result, repositories.MultiLineLot{
				LotIdentifier: lot.LotIdentifier,
				LineNames:     names,
			})
		}
	}
	return result, nil
}
