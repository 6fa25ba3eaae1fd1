package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Placement outcome labels.
const (
	StatusAccepted          = "accepted"
	StatusRejectedMalformed = "rejected_malformed"
	StatusRejectedColor     = "rejected_color"
	StatusRejectedCooldown  = "rejected_cooldown"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	placements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "place",
			Subsystem: "canvas",
			Name:      "placements_total",
			Help:      "Total number of pixel placement intents, by outcome.",
		},
		[]string{"status"},
	)

	connections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "place",
			Subsystem: "ws",
			Name:      "active_connections",
			Help:      "Current number of connected websocket sessions.",
		},
	)

	broadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "place",
			Subsystem: "ws",
			Name:      "broadcast_frames_total",
			Help:      "Total number of frames written during placement fan-out.",
		},
	)

	persistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "place",
			Subsystem: "persistence",
			Name:      "failures_total",
			Help:      "Total number of failed snapshot loads and saves.",
		},
		[]string{"op"},
	)
)

func init() {
	Registry.MustRegister(
		placements,
		connections,
		broadcasts,
		persistenceFailures,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// RecordPlacement counts one placement intent by outcome.
func RecordPlacement(status string) {
	placements.WithLabelValues(status).Inc()
}

// ConnectionOpened and ConnectionClosed track the live session gauge.
func ConnectionOpened() { connections.Inc() }
func ConnectionClosed() { connections.Dec() }

// RecordBroadcastFrames counts frames written during one fan-out.
func RecordBroadcastFrames(n int) {
	broadcasts.Add(float64(n))
}

// RecordPersistenceFailure counts one failed persistence operation.
func RecordPersistenceFailure(op string) {
	persistenceFailures.WithLabelValues(op).Inc()
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
