package telemetry

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics groups the connection-level counters and gauges the protocol
// layer updates every tick (spec.md ambient stack: packets/bytes sent
// and received, reliable-message resend count, client tick lead).
type Metrics struct {
	set *metrics.Set

	PacketsSent     *metrics.Counter
	PacketsReceived *metrics.Counter
	BytesSent       *metrics.Counter
	BytesReceived   *metrics.Counter
	ReliableResends *metrics.Counter
	TickLead        *metrics.Gauge
}

// NewMetrics returns a fresh, independent metric set so multiple bot
// instances in one process don't collide on the global registry.
func NewMetrics() *Metrics {
	set := metrics.NewSet()
	m := &Metrics{
		set:             set,
		PacketsSent:     set.NewCounter("factorio_packets_sent_total"),
		PacketsReceived: set.NewCounter("factorio_packets_received_total"),
		BytesSent:       set.NewCounter("factorio_bytes_sent_total"),
		BytesReceived:   set.NewCounter("factorio_bytes_received_total"),
		ReliableResends: set.NewCounter("factorio_reliable_resends_total"),
	}
	m.TickLead = set.NewGauge("factorio_client_tick_lead", nil)
	return m
}

// WritePrometheus exposes the set in Prometheus text exposition format.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}
