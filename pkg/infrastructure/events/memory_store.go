package events

import (
	"sync"

	"go.uber.org/zap"
)

// InMemoryEventStore keeps the audit trail in process memory. Good enough
// for a single import-and-report run; long-lived deployments would swap
// in a persistent store behind the same interface.
type InMemoryEventStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	allEvents   []Event
	logger      *zap.SugaredLogger
}

// NewInMemoryEventStore creates an empty store. A nil logger is allowed.
func NewInMemoryEventStore(logger *zap.SugaredLogger) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		logger:      logger,
	}
}

// AppendEvent appends to the stream, assigning the next version number
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()

	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)

	handlers := s.subscribers[versioned.EventType]
	s.mu.Unlock()

	for _, handler := range handlers {
		if !handler.CanHandle(versioned.EventType) {
			continue
		}
		if err := handler.Handle(versioned); err != nil && s.logger != nil {
			s.logger.Warnw("Event handler failed",
				"type", versioned.EventType,
				"stream", streamID,
				"error", err,
			)
		}
	}
	return nil
}

// ReadEvents returns a stream's events from the given version onward.
// Versions start at 1; an unknown stream yields an empty slice.
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}
	return stream[fromVersion-1:], nil
}

// ReadAllEvents returns every event from the given global position onward
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}
	return s.allEvents[fromPosition:], nil
}

// Subscribe registers a handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

// Unsubscribe removes a handler from all event types
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Filter into a fresh slice: AppendEvent snapshots the handler slice
	// under the lock and iterates it after unlocking, so the old backing
	// array must not be rewritten in place.
	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}
