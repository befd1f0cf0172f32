package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FlightsCreated    prometheus.Counter
	FlightTransitions *prometheus.CounterVec
	GateResolutions   *prometheus.CounterVec
	Reminders         *prometheus.CounterVec
	PlatformErrors    *prometheus.CounterVec
	Commands          *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FlightsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_created_total",
			Help:      "The total number of flights created",
		}),
		FlightTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_transitions_total",
			Help:      "The total number of flight state transitions by target state",
		}, []string{"state"}),
		GateResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_resolutions_total",
			Help:      "The total number of confirmation gate resolutions by outcome",
		}, []string{"outcome"}),
		Reminders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_total",
			Help:      "The total number of deferred tasks by scheduler and result",
		}, []string{"scheduler", "result"}),
		PlatformErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "platform_errors_total",
			Help:      "The total number of failed chat platform calls",
		}, []string{"operation"}),
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "The total number of handled commands by name and result",
		}, []string{"command", "result"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time taken to handle commands",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}
}
