package usecase

import (
	"fmt"
	"sort"
	"sync"

	"flightops-bot/internal/domain/entity"
)

// flightRecord is the store's private cell for one flight. mu serializes
// state transitions on the same flight; busy guards the single in-flight
// platform commit.
type flightRecord struct {
	mu     sync.Mutex
	flight entity.Flight
	busy   bool
}

// FlightStore holds non-terminal flights keyed by normalized flight code.
// Callers only ever receive copies; every mutation goes through Transition.
type FlightStore struct {
	mu     sync.RWMutex
	active map[string]*flightRecord
}

// NewFlightStore creates an empty store
func NewFlightStore() *FlightStore {
	return &FlightStore{
		active: make(map[string]*flightRecord),
	}
}

// Insert stores a new flight. It fails with entity.ErrDuplicateFlightCode
// when a non-terminal flight already holds the code.
func (s *FlightStore) Insert(flight entity.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[flight.Code]; exists {
		return fmt.Errorf("flight %s: %w", flight.Code, entity.ErrDuplicateFlightCode)
	}
	s.active[flight.Code] = &flightRecord{flight: flight}
	return nil
}

// Get returns a snapshot of the active flight holding code.
func (s *FlightStore) Get(code string) (entity.Flight, bool) {
	record := s.record(code)
	if record == nil {
		return entity.Flight{}, false
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	if record.flight.State.IsTerminal() {
		return entity.Flight{}, false
	}
	return record.flight, true
}

// List returns snapshots of all active flights ordered by start time.
func (s *FlightStore) List() []entity.Flight {
	s.mu.RLock()
	records := make([]*flightRecord, 0, len(s.active))
	for _, record := range s.active {
		records = append(records, record)
	}
	s.mu.RUnlock()

	flights := make([]entity.Flight, 0, len(records))
	for _, record := range records {
		record.mu.Lock()
		if !record.flight.State.IsTerminal() {
			flights = append(flights, record.flight)
		}
		record.mu.Unlock()
	}
	sort.Slice(flights, func(i, j int) bool {
		return flights[i].StartTime.Before(flights[j].StartTime)
	})
	return flights
}

// Transition applies mutate to the flight identified by code and id while
// holding that flight's lock. mutate receives a copy; the copy is committed
// only when mutate succeeds and any state change is a legal transition.
// Flights reaching a terminal state release their code slot.
func (s *FlightStore) Transition(code, id string, mutate func(f *entity.Flight) error) (entity.Flight, entity.FlightState, error) {
	record := s.record(code)
	if record == nil {
		return entity.Flight{}, 0, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	current := record.flight
	if current.ID != id || current.State.IsTerminal() {
		return entity.Flight{}, 0, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}

	next := current
	if err := mutate(&next); err != nil {
		return current, current.State, err
	}
	if next.State != current.State && !entity.CanTransition(current.State, next.State) {
		return current, current.State, fmt.Errorf("flight %s %s -> %s: %w", code, current.State, next.State, entity.ErrInvalidTransition)
	}

	record.flight = next
	if next.State.IsTerminal() {
		s.release(code, record)
	}
	return next, current.State, nil
}

// Claim marks the flight busy for a platform commit if it is in one of the
// allowed states. Only one claim can be held at a time.
func (s *FlightStore) Claim(code, id string, allowed ...entity.FlightState) (entity.Flight, error) {
	record := s.record(code)
	if record == nil {
		return entity.Flight{}, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	if record.flight.ID != id || record.flight.State.IsTerminal() {
		return entity.Flight{}, fmt.Errorf("flight %s: %w", code, entity.ErrFlightNotFound)
	}
	if record.busy || !stateIn(record.flight.State, allowed) {
		return record.flight, fmt.Errorf("flight %s in state %s: %w", code, record.flight.State, entity.ErrInvalidTransition)
	}
	record.busy = true
	return record.flight, nil
}

// Unclaim releases a claim taken with Claim.
func (s *FlightStore) Unclaim(code, id string) {
	record := s.record(code)
	if record == nil {
		return
	}
	record.mu.Lock()
	if record.flight.ID == id {
		record.busy = false
	}
	record.mu.Unlock()
}

func (s *FlightStore) record(code string) *flightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[code]
}

// release drops a terminal record from the index. Must be called with
// record.mu held; the slot is only removed if it still points at record.
func (s *FlightStore) release(code string, record *flightRecord) {
	s.mu.Lock()
	if s.active[code] == record {
		delete(s.active, code)
	}
	s.mu.Unlock()
}

func stateIn(state entity.FlightState, allowed []entity.FlightState) bool {
	for _, candidate := range allowed {
		if state == candidate {
			return true
		}
	}
	return false
}
