// Package httpserver serves the bot's operational endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/pkg/logger"
)

// FlightLister exposes the active flight snapshot.
type FlightLister interface {
	ActiveFlights(ctx context.Context) []entity.Flight
}

// FlightHistory exposes the audit trail of a flight code, newest first.
type FlightHistory interface {
	FindByFlightCode(ctx context.Context, flightCode string, limit int) ([]*entity.FlightEvent, error)
}

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// Config holds configuration for the ops server.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// OpsServer serves /health, /metrics, /flights and /flights/{code}/events.
type OpsServer struct {
	flights  FlightLister
	history  FlightHistory
	gatherer prometheus.Gatherer
	config   Config
	logger   logger.Logger
}

// NewOpsServer creates a new ops server
func NewOpsServer(flights FlightLister, history FlightHistory, gatherer prometheus.Gatherer, config Config, logger logger.Logger) *OpsServer {
	return &OpsServer{
		flights:  flights,
		history:  history,
		gatherer: gatherer,
		config:   config,
		logger:   logger,
	}
}

// Router returns the configured chi router.
func (s *OpsServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/flights", s.handleFlights)
	r.Get("/flights/{code}/events", s.handleFlightEvents)

	return r
}

// Server builds the http.Server for Router.
func (s *OpsServer) Server() *http.Server {
	return &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
}

func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.config.Version,
	})
}

type flightsResponse struct {
	Count   int          `json:"count"`
	Flights []flightView `json:"flights"`
}

type flightView struct {
	entity.Flight
	StateName string `json:"stateName"`
}

func (s *OpsServer) handleFlights(w http.ResponseWriter, r *http.Request) {
	flights := s.flights.ActiveFlights(r.Context())

	views := make([]flightView, 0, len(flights))
	for _, flight := range flights {
		views = append(views, flightView{Flight: flight, StateName: flight.State.String()})
	}
	writeJSON(w, http.StatusOK, flightsResponse{Count: len(views), Flights: views})
}

type flightEventsResponse struct {
	FlightCode string                `json:"flightCode"`
	Count      int                   `json:"count"`
	Events     []*entity.FlightEvent `json:"events"`
}

func (s *OpsServer) handleFlightEvents(w http.ResponseWriter, r *http.Request) {
	code := entity.NormalizeFlightCode(chi.URLParam(r, "code"))

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := s.history.FindByFlightCode(r.Context(), code, limit)
	if err != nil {
		s.logger.Error("Failed to load flight events", "flightCode", code, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load flight events"})
		return
	}
	if events == nil {
		events = []*entity.FlightEvent{}
	}
	writeJSON(w, http.StatusOK, flightEventsResponse{FlightCode: code, Count: len(events), Events: events})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
