package hub

import "github.com/prometheus/client_golang/prometheus"

var (
	connectionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "collab_ws_connections",
		Help: "Number of live whiteboard socket connections",
	})
	roomsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "collab_ws_rooms",
		Help: "Number of whiteboards with at least one live connection",
	})
	eventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collab_ws_events_delivered_total",
		Help: "Events queued for delivery to a connection",
	})
	eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "collab_ws_events_dropped_total",
		Help: "Events dropped because a connection's outbound queue was full",
	})
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "collab_ws_events_published_total",
		Help: "Events published to the broker, by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(connectionsGauge, roomsGauge, eventsDelivered, eventsDropped, eventsPublished)
}
