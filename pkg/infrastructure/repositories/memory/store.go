// Package memory provides an in-memory store implementing the domain
// repository interfaces. It backs tests, demos, and small imports where a
// database is not worth the setup.
package memory

import (
	"sync"
	"time"

	"github.com/vsinha/lottrack/pkg/domain/entities"
)

// Store holds lots and their logs in memory, shared by the three
// repository views. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	lots         []*entities.Lot
	byIdentifier map[string]int
	byNormalized map[string]int

	production map[int64][]*entities.ProductionLog
	shipping   map[int64][]*entities.ShippingLog

	nextLotID  int64
	nextProdID int64
	nextShipID int64

	clock func() time.Time
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		byIdentifier: make(map[string]int),
		byNormalized: make(map[string]int),
		production:   make(map[int64][]*entities.ProductionLog),
		shipping:     make(map[int64][]*entities.ShippingLog),
		clock:        time.Now,
	}
}

// Lots returns the store's LotRepository view
func (s *Store) Lots() *LotRepository {
	return &LotRepository{s: s}
}

// ProductionLogs returns the store's ProductionLogRepository view
func (s *Store) ProductionLogs() *ProductionLogRepository {
	return &ProductionLogRepository{s: s}
}

// ShippingLogs returns the store's ShippingLogRepository view
func (s *Store) ShippingLogs() *ShippingLogRepository {
	return &ShippingLogRepository{s: s}
}

// WithClock overrides the creation timestamp source. Used by tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

func (s *Store) lotExists(lotID int64) bool {
	for _, lot := range s.lots {
		if lot.ID == lotID {
			return true
		}
	}
	return false
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
