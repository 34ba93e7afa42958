package websocket

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "room_chat_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsOccupiedRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "room_chat_ws_occupied_rooms",
			Help: "Rooms with at least one joined session.",
		},
	)
	wsEventsDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_ws_events_delivered_total",
			Help: "Total outbound events delivered to clients.",
		},
	)
	wsEventsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_ws_events_received_total",
			Help: "Total inbound client events accepted by the hub.",
		},
	)
	wsEventsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "room_chat_ws_events_rejected_total",
			Help: "Inbound frames dropped at the transport boundary.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsOccupiedRooms, wsEventsDelivered, wsEventsReceived, wsEventsRejected)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsOccupiedRooms.Set(float64(count))
}

func addDelivered(count int) {
	wsEventsDelivered.Add(float64(count))
}

func countEventReceived() {
	wsEventsReceived.Inc()
}

func countEventRejected() {
	wsEventsRejected.Inc()
}
