// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime counters for the connection server, backed by Prometheus
// collectors so they can be scraped while the server's own goroutine runs.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace = "sockreactor"
	subsystem = "server"
)

// Metrics holds the server's collectors.
type Metrics struct {
	Accepted       prometheus.Counter
	Rejected       prometheus.Counter
	AcceptErrors   prometheus.Counter
	Disconnects    prometheus.Counter
	PollErrors     prometheus.Counter
	BytesReceived  prometheus.Counter
	BytesSent      prometheus.Counter
	DroppedEntries prometheus.Counter
	Requeued       prometheus.Counter
	Connections    prometheus.Gauge
	QueueDepth     prometheus.Gauge

	named []namedMetric
}

type namedMetric struct {
	name   string
	metric prometheus.Metric
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}
	counter := func(name, help string) prometheus.Counter {
		c := f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
		m.named = append(m.named, namedMetric{name, c})
		return c
	}
	gauge := func(name, help string) prometheus.Gauge {
		g := f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
		m.named = append(m.named, namedMetric{name, g})
		return g
	}

	m.Accepted = counter("accepted_total", "Client connections accepted.")
	m.Rejected = counter("rejected_total", "Accept attempts refused because the client limit was reached.")
	m.AcceptErrors = counter("accept_errors_total", "accept(2) or post-accept setup failures.")
	m.Disconnects = counter("disconnects_total", "Client connections closed.")
	m.PollErrors = counter("poll_errors_total", "Failed readiness waits.")
	m.BytesReceived = counter("bytes_received_total", "Bytes drained from clients.")
	m.BytesSent = counter("bytes_sent_total", "Bytes written to clients.")
	m.DroppedEntries = counter("dropped_entries_total", "Outbound entries dropped because the target was gone.")
	m.Requeued = counter("requeued_total", "Outbound remainders pushed back after a would-block write.")
	m.Connections = gauge("connections", "Currently registered clients.")
	m.QueueDepth = gauge("queue_depth", "Outbound entries waiting for delivery.")
	return m
}

// Snapshot returns the current value of every collector keyed by its short name.
func (m *Metrics) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(m.named))
	for _, nm := range m.named {
		var pb dto.Metric
		if err := nm.metric.Write(&pb); err != nil {
			continue
		}
		switch {
		case pb.Counter != nil:
			out[nm.name] = pb.GetCounter().GetValue()
		case pb.Gauge != nil:
			out[nm.name] = pb.GetGauge().GetValue()
		}
	}
	return out
}
