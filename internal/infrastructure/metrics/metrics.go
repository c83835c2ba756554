package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RealtimeMetrics exposes the realtime layer's operational counters.
// Construct with a dedicated registry in tests to avoid duplicate
// registration panics.
type RealtimeMetrics struct {
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	HandshakeRejects  prometheus.Counter
	EventsReceived    *prometheus.CounterVec
	EventsSent        *prometheus.CounterVec
	SendsDropped      prometheus.Counter
	HandlerErrors     *prometheus.CounterVec
}

// NewRealtimeMetrics registers the realtime metric set on the given registry.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	factory := promauto.With(reg)

	return &RealtimeMetrics{
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of currently open websocket connections",
		}),
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total number of accepted websocket connections",
		}),
		HandshakeRejects: factory.NewCounter(prometheus.CounterOpts{
			Name: "websocket_handshake_rejects_total",
			Help: "Total number of handshakes rejected before upgrade",
		}),
		EventsReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "websocket_events_received_total",
			Help: "Total number of inbound client events by type",
		}, []string{"type"}),
		EventsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "websocket_events_sent_total",
			Help: "Total number of outbound events by type",
		}, []string{"type"}),
		SendsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "websocket_sends_dropped_total",
			Help: "Total number of events dropped because a send buffer was full or closed",
		}),
		HandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "websocket_handler_errors_total",
			Help: "Total number of scoped error events emitted by code",
		}, []string{"code"}),
	}
}
