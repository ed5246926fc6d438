package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	websocketConnections prometheus.Gauge
	routeBroadcasts      prometheus.Counter
	geocoderFailures     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		websocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routesync_websocket_connections",
			Help: "The number of connected websocket clients",
		}),
		routeBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routesync_route_broadcasts_total",
			Help: "The total number of route snapshots broadcast to clients",
		}),
		geocoderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routesync_geocoder_failures_total",
			Help: "The total number of failed geocoding lookups",
		}, []string{"reason"}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.websocketConnections)
	prometheus.MustRegister(m.routeBroadcasts)
	prometheus.MustRegister(m.geocoderFailures)
}

func (m *Metrics) IncrementWebsocketConnections() {
	m.websocketConnections.Inc()
}

func (m *Metrics) DecrementWebsocketConnections() {
	m.websocketConnections.Dec()
}

func (m *Metrics) IncrementRouteBroadcasts() {
	m.routeBroadcasts.Inc()
}

func (m *Metrics) IncrementGeocoderFailures(reason string) {
	m.geocoderFailures.WithLabelValues(reason).Inc()
}
