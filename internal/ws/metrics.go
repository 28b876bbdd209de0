package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chess_ws_connections",
			Help: "Currently connected websocket clients",
		},
	)
	WSMessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chess_ws_messages_sent_total",
			Help: "Messages broadcast to websocket clients, by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(WSConnections)
	prometheus.MustRegister(WSMessagesSent)
}
