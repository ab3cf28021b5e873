package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Open websocket connections",
		},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_published_total",
			Help: "Realtime events queued for delivery, per recipient",
		},
		[]string{"event"},
	)

	EventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_dropped_total",
			Help: "Realtime events dropped because a connection queue was full",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsActive, EventsPublished, EventsDropped)
}
