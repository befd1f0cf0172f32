package usecase

import (
	"errors"
	"testing"
	"time"

	"flightops-bot/internal/domain/entity"
)

func draftFlight(id, code string, start time.Time) entity.Flight {
	return entity.Flight{
		ID:        id,
		Code:      code,
		Route:     "EGLL-KJFK",
		Aircraft:  "B777",
		StartTime: start,
		EndTime:   start.Add(entity.FlightDuration),
		State:     entity.StateDraft,
	}
}

func setState(state entity.FlightState) func(f *entity.Flight) error {
	return func(f *entity.Flight) error {
		f.State = state
		return nil
	}
}

func TestFlightStoreRejectsDuplicateCode(t *testing.T) {
	store := NewFlightStore()
	start := time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC)

	if err := store.Insert(draftFlight("a", "LS8800", start)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := store.Insert(draftFlight("b", "LS8800", start))
	if !errors.Is(err, entity.ErrDuplicateFlightCode) {
		t.Fatalf("second Insert error = %v, want ErrDuplicateFlightCode", err)
	}

	got, ok := store.Get("LS8800")
	if !ok || got.ID != "a" {
		t.Errorf("Get = %+v, %v; want the first flight", got, ok)
	}
}

func TestFlightStoreTerminalReleasesCode(t *testing.T) {
	store := NewFlightStore()
	start := time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC)

	store.Insert(draftFlight("a", "LS8800", start))
	if _, prev, err := store.Transition("LS8800", "a", setState(entity.StateCancelled)); err != nil || prev != entity.StateDraft {
		t.Fatalf("Transition = %s, %v", prev, err)
	}

	if _, ok := store.Get("LS8800"); ok {
		t.Error("cancelled flight still visible")
	}
	if len(store.List()) != 0 {
		t.Error("cancelled flight still listed")
	}
	if err := store.Insert(draftFlight("b", "LS8800", start)); err != nil {
		t.Errorf("code not released: %v", err)
	}

	// A stale id must not touch the flight now holding the code.
	if _, _, err := store.Transition("LS8800", "a", setState(entity.StateClosed)); !errors.Is(err, entity.ErrFlightNotFound) {
		t.Errorf("stale Transition error = %v, want ErrFlightNotFound", err)
	}
	if got, _ := store.Get("LS8800"); got.ID != "b" || got.State != entity.StateDraft {
		t.Errorf("new flight changed: %+v", got)
	}
}

func TestFlightStoreRejectsBackwardTransition(t *testing.T) {
	store := NewFlightStore()
	store.Insert(draftFlight("a", "LS1", time.Now()))
	store.Transition("LS1", "a", setState(entity.StateScheduled))

	current, _, err := store.Transition("LS1", "a", setState(entity.StatePendingHostConfirmation))
	if !errors.Is(err, entity.ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
	if current.State != entity.StateScheduled {
		t.Errorf("state = %s, want scheduled", current.State)
	}
}

func TestFlightStoreMutateErrorCommitsNothing(t *testing.T) {
	store := NewFlightStore()
	store.Insert(draftFlight("a", "LS1", time.Now()))

	boom := errors.New("boom")
	_, _, err := store.Transition("LS1", "a", func(f *entity.Flight) error {
		f.State = entity.StateScheduled
		f.Route = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	got, _ := store.Get("LS1")
	if got.State != entity.StateDraft || got.Route != "EGLL-KJFK" {
		t.Errorf("flight mutated on error: %+v", got)
	}
}

func TestFlightStoreClaim(t *testing.T) {
	store := NewFlightStore()
	store.Insert(draftFlight("a", "LS1", time.Now()))
	store.Transition("LS1", "a", setState(entity.StatePendingHostConfirmation))

	if _, err := store.Claim("LS1", "a", entity.StateScheduled); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("claim in wrong state error = %v, want ErrInvalidTransition", err)
	}
	if _, err := store.Claim("LS1", "a", entity.StatePendingHostConfirmation); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if _, err := store.Claim("LS1", "a", entity.StatePendingHostConfirmation); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("second claim error = %v, want ErrInvalidTransition", err)
	}

	store.Unclaim("LS1", "a")
	if _, err := store.Claim("LS1", "a", entity.StatePendingHostConfirmation); err != nil {
		t.Errorf("claim after Unclaim: %v", err)
	}
	if _, err := store.Claim("LS1", "other", entity.StatePendingHostConfirmation); !errors.Is(err, entity.ErrFlightNotFound) {
		t.Errorf("claim with wrong id error = %v, want ErrFlightNotFound", err)
	}
}

func TestFlightStoreListOrdersByStart(t *testing.T) {
	store := NewFlightStore()
	base := time.Date(2025, 12, 25, 18, 0, 0, 0, time.UTC)
	store.Insert(draftFlight("late", "LS2", base.Add(2*time.Hour)))
	store.Insert(draftFlight("early", "LS1", base))
	store.Insert(draftFlight("middle", "LS3", base.Add(time.Hour)))

	flights := store.List()
	if len(flights) != 3 {
		t.Fatalf("listed %d flights, want 3", len(flights))
	}
	for i, want := range []string{"early", "middle", "late"} {
		if flights[i].ID != want {
			t.Errorf("flights[%d] = %s, want %s", i, flights[i].ID, want)
		}
	}
}
