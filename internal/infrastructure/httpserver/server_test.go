package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/logger"
)

type staticFlights []entity.Flight

func (f staticFlights) ActiveFlights(_ context.Context) []entity.Flight { return f }

type recordedHistory struct {
	mu        sync.Mutex
	events    []*entity.FlightEvent
	err       error
	lastCode  string
	lastLimit int
}

func (h *recordedHistory) FindByFlightCode(_ context.Context, code string, limit int) ([]*entity.FlightEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCode = code
	h.lastLimit = limit
	return h.events, h.err
}

func newTestServer(flights staticFlights) *httptest.Server {
	return newTestServerWithHistory(flights, &recordedHistory{})
}

func newTestServerWithHistory(flights staticFlights, history *recordedHistory) *httptest.Server {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "flightops_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	ops := NewOpsServer(flights, history, registry, Config{Port: "0", Version: "1.2.3"}, logger.NewNopLogger())
	return httptest.NewServer(ops.Router())
}

func TestHealth(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Errorf("status %d, body %v", resp.StatusCode, body)
	}
}

func TestFlights(t *testing.T) {
	start := time.Date(2025, 12, 20, 13, 0, 0, 0, time.UTC)
	server := newTestServer(staticFlights{
		{ID: "a", Code: "LS8800", State: entity.StateScheduled, StartTime: start, EndTime: start.Add(time.Hour)},
		{ID: "b", Code: "LS8801", State: entity.StateDraft, StartTime: start, EndTime: start.Add(time.Hour)},
	})
	defer server.Close()

	resp, err := http.Get(server.URL + "/flights")
	if err != nil {
		t.Fatalf("GET /flights: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Count   int `json:"count"`
		Flights []struct {
			Code      string `json:"flightCode"`
			StateName string `json:"stateName"`
		} `json:"flights"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || body.Flights[0].Code != "LS8800" || body.Flights[0].StateName != "scheduled" {
		t.Errorf("body = %+v", body)
	}
}

func TestMetrics(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(buf.String(), "flightops_test_total 1") {
		t.Errorf("metrics output missing counter:\n%s", buf.String())
	}
}

func TestFlightEvents(t *testing.T) {
	at := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	history := &recordedHistory{events: []*entity.FlightEvent{
		{ID: "e2", FlightCode: "LS8800", From: "pending_host_confirmation", To: "scheduled", OccurredAt: at.Add(time.Minute)},
		{ID: "e1", FlightCode: "LS8800", From: "draft", To: "pending_host_confirmation", OccurredAt: at},
	}}
	server := newTestServerWithHistory(nil, history)
	defer server.Close()

	resp, err := http.Get(server.URL + "/flights/ls8800/events?limit=1000")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		FlightCode string `json:"flightCode"`
		Count      int    `json:"count"`
		Events     []struct {
			To string `json:"to"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FlightCode != "LS8800" || body.Count != 2 || body.Events[0].To != "scheduled" {
		t.Errorf("body = %+v", body)
	}
	history.mu.Lock()
	defer history.mu.Unlock()
	if history.lastCode != "LS8800" || history.lastLimit != maxEventLimit {
		t.Errorf("lookup = %q limit %d, want LS8800 limit %d", history.lastCode, history.lastLimit, maxEventLimit)
	}
}

func TestFlightEventsErrors(t *testing.T) {
	history := &recordedHistory{}
	server := newTestServerWithHistory(nil, history)
	defer server.Close()

	resp, err := http.Get(server.URL + "/flights/LS8800/events?limit=zero")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}

	history.mu.Lock()
	history.err = errors.New("mongo unavailable")
	history.mu.Unlock()
	resp, err = http.Get(server.URL + "/flights/LS8800/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	resp.Body.Close()
	history.mu.Lock()
	defer history.mu.Unlock()
	if resp.StatusCode != http.StatusInternalServerError || history.lastLimit != defaultEventLimit {
		t.Errorf("status = %d, limit = %d", resp.StatusCode, history.lastLimit)
	}
}
