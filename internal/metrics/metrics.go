// Package metrics exposes Prometheus instrumentation for the switching
// engine. It is pure observability: nothing in internal/engine reads these
// values back, so a scrape failure or a disabled metrics listener never
// affects switching behavior.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ConnectedClients is the current roster size (len(clients) in spec.md's
	// data model), updated on every registration and removal.
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rkvmd",
		Name:      "connected_clients",
		Help:      "Number of clients currently registered with the switching engine.",
	})

	// SwitchFires counts switch-chord activations.
	SwitchFires = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rkvmd",
		Name:      "switch_chord_fires_total",
		Help:      "Total number of times the switch chord fired.",
	})

	// KillFires counts kill-chord activations (always 0 or 1 per process
	// lifetime, since firing terminates the engine).
	KillFires = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rkvmd",
		Name:      "kill_chord_fires_total",
		Help:      "Total number of times the kill chord fired.",
	})

	// ClientRemovals counts clients removed after an outbound send failure.
	ClientRemovals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rkvmd",
		Name:      "client_removals_total",
		Help:      "Total number of clients removed after a failed input-event send.",
	})
)

// Registry is a dedicated registry (rather than prometheus.DefaultRegisterer)
// so importing this package never panics on double-registration in tests
// that construct multiple engines.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(ConnectedClients, SwitchFires, KillFires, ClientRemovals)
}
